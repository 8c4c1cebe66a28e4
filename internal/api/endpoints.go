package api

import "net/http"

// Route identifies an HTTP endpoint by method and path.
type Route struct {
	Method string
	Path   string
}

func (r Route) String() string {
	return r.Method + " " + r.Path
}

const Prefix = "/api"

var (
	Login      = Route{Method: http.MethodPost, Path: Prefix + "/login"}
	AddWish    = Route{Method: http.MethodPost, Path: Prefix + "/add"}
	DeleteWish = Route{Method: http.MethodPost, Path: Prefix + "/delete"}
	ListWishes = Route{Method: http.MethodGet, Path: Prefix + "/wishes"}
)

// PublicEndpoints defines endpoints that don't require authentication
var PublicEndpoints = map[Route]bool{
	Login:      true,
	ListWishes: true,
	AddWish:    false,
	DeleteWish: false,
}

// IsProtected reports whether a route needs a verified session. Unknown
// routes are protected.
func IsProtected(r Route) bool {
	isPublic, exists := PublicEndpoints[r]
	return !exists || !isPublic
}
