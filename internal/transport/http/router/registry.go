package router

import (
	"slices"

	"github.com/gin-gonic/gin"
)

// APIModule mounts its routes under the API prefix group.
type APIModule interface{ MountAPI(*gin.RouterGroup) }

const defaultPriority = 100

// MountAllAPI mounts mods in ascending Priority() order. Modules without a
// Priority method rank at 100; ties keep argument order.
func MountAllAPI(api *gin.RouterGroup, mods ...APIModule) {
	ordered := slices.Clone(mods)
	slices.SortStableFunc(ordered, func(a, b APIModule) int {
		return priority(a) - priority(b)
	})
	for _, m := range ordered {
		m.MountAPI(api)
	}
}

func priority(m APIModule) int {
	if p, ok := m.(interface{ Priority() int }); ok {
		return p.Priority()
	}
	return defaultPriority
}
