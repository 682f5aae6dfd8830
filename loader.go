package raytracer

import (
	"sync"

	"github.com/maxkl/raytracer/asset"
	"github.com/maxkl/raytracer/kdtree"
)

type assetKind int

const (
	assetTexture assetKind = iota
	assetMesh
)

type assetJob struct {
	kind assetKind
	path string
}

type preloadedAssets struct {
	textures map[string]*asset.RgbImage
	meshes   map[string]*kdtree.MeshData
}

type loaderPrivateData struct {
	err error
}

// preloadAssets loads every distinct texture/mesh path referenced by
// a scene concurrently, one worker goroutine per up to numWorkers,
// fed by a shared job channel and collecting results into a
// mutex-guarded map. This follows the worker-pool shape of
// octatron's BuildTree: a fixed pool of goroutines draining one
// channel, a sync.WaitGroup joining them, and a private per-worker
// error slot checked after the wait instead of propagated through the
// channel itself.
func preloadAssets(jobs []assetJob, loader asset.Loader) (*preloadedAssets, error) {
	result := &preloadedAssets{
		textures: make(map[string]*asset.RgbImage),
		meshes:   make(map[string]*kdtree.MeshData),
	}
	if len(jobs) == 0 {
		return result, nil
	}

	numWorkers := len(jobs)
	if numWorkers > 8 {
		numWorkers = 8
	}

	jobChan := make(chan assetJob, len(jobs))
	for _, j := range jobs {
		jobChan <- j
	}
	close(jobChan)

	var mu sync.Mutex
	workerData := make([]loaderPrivateData, numWorkers)

	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		data := &workerData[i]
		go func() {
			defer wg.Done()
			for job := range jobChan {
				switch job.kind {
				case assetTexture:
					img, err := loader.LoadImage(job.path)
					if err != nil {
						data.err = err
						return
					}
					mu.Lock()
					result.textures[job.path] = img
					mu.Unlock()
				case assetMesh:
					mesh, err := loader.LoadObj(job.path)
					if err != nil {
						data.err = err
						return
					}
					mu.Lock()
					result.meshes[job.path] = mesh
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	for _, data := range workerData {
		if data.err != nil {
			return nil, data.err
		}
	}
	return result, nil
}
