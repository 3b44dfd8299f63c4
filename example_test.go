package assetcache_test

import (
	"context"
	"fmt"

	"github.com/forge3d/assetcache"
)

// Texture stands in for a GPU-resident asset. SizeBytes reports the
// footprint used for budget accounting.
type Texture struct {
	Pixels []byte
}

func (t Texture) SizeBytes() int64 { return int64(len(t.Pixels)) }

func Example() {
	ctx := context.Background()

	mgr := assetcache.NewManager(
		assetcache.WithMemoryBudget(64<<20),
		assetcache.WithWorkers(4),
	)
	defer mgr.Close()

	textures := assetcache.NewCache[Texture](mgr, "textures")

	key := assetcache.MakeKey("bricks.png", "srgb")
	loader := func(ctx context.Context) (*Texture, error) {
		// Real loaders read and decode the file, e.g. with assetio.ReadFile.
		return &Texture{Pixels: make([]byte, 1024)}, nil
	}

	tex, err := textures.LoadSync(ctx, key, loader, assetcache.PriorityMedium)
	if err != nil {
		panic(err)
	}

	// A second load for the same key is a cache hit: the loader does
	// not run again and the same instance comes back.
	again, _ := textures.LoadSync(ctx, key, loader, assetcache.PriorityMedium)

	fmt.Println("cached:", textures.IsCached(key))
	fmt.Println("same instance:", tex == again)
	fmt.Println("usage:", mgr.MemoryUsage())
	// Output:
	// cached: true
	// same instance: true
	// usage: 1024
}
