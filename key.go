package assetcache

import (
	"fmt"
	"strings"
)

// MakeKey builds a resource key from a source path and every load
// parameter that affects the produced instance. Two requests with the
// same path but different parameters are different keys and cache
// independently:
//
//	MakeKey("bricks.png", "srgb")                // "bricks.png|srgb"
//	MakeKey("bricks.png", "linear")              // "bricks.png|linear"
//	MakeKey("rock.obj", Flag("materials", true)) // "rock.obj|materials=true"
func MakeKey(path string, params ...string) string {
	if len(params) == 0 {
		return path
	}
	return path + "|" + strings.Join(params, "|")
}

// Flag renders a boolean load parameter for MakeKey.
func Flag(name string, on bool) string {
	return fmt.Sprintf("%s=%t", name, on)
}
