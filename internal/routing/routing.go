package routing

import (
	"errors"
	"net/http"
	"path"

	"github.com/alder-protocol/mrv-dashboard/internal/session"
	"github.com/gin-gonic/gin"
)

const (
	WelcomePath       = "/welcome"
	FarmerProfilePath = "/farmer-profile"
	VVBProfilePath    = "/vvb-profile"
	CreateProjectPath = "/create-project"
	CreateMRVPath     = "/create-mrv"

	LayoutContextKey = "layout"
)

var ErrNoRole = errors.New("role not selected")

type Layout string

const (
	LayoutNone    Layout = "none"
	LayoutDefault Layout = "default"
	LayoutFarmer  Layout = "farmer"
	LayoutVVB     Layout = "vvb"
)

// roleGuards lists the pages restricted to a single role
var roleGuards = map[string]session.Role{
	FarmerProfilePath: session.RoleFarmer,
	VVBProfilePath:    session.RoleVVB,
	CreateProjectPath: session.RoleFarmer,
	CreateMRVPath:     session.RoleFarmer,
}

type Resolution struct {
	Path     string `json:"path"`
	Redirect bool   `json:"redirect"`
	Layout   Layout `json:"layout"`
}

// Resolve decides where a navigation to p ends up for the given role and which layout wraps it
func Resolve(role session.Role, p string) Resolution {
	p = path.Clean("/" + p)

	if p == WelcomePath {
		return Resolution{Path: WelcomePath, Layout: LayoutNone}
	}
	if role == session.RoleNone {
		return Resolution{Path: WelcomePath, Redirect: true, Layout: LayoutNone}
	}
	if required, ok := roleGuards[p]; ok && required != role {
		return Resolution{Path: WelcomePath, Redirect: true, Layout: LayoutNone}
	}

	return Resolution{Path: p, Layout: layoutFor(role)}
}

func ProfilePath(role session.Role) (string, error) {
	switch role {
	case session.RoleFarmer:
		return FarmerProfilePath, nil
	case session.RoleVVB:
		return VVBProfilePath, nil
	}
	return "", ErrNoRole
}

func layoutFor(role session.Role) Layout {
	switch role {
	case session.RoleFarmer:
		return LayoutFarmer
	case session.RoleVVB:
		return LayoutVVB
	}
	return LayoutDefault
}

type RoleSource interface {
	Role() session.Role
}

// RoleGuard redirects requests the current role may not see and exposes the layout to handlers
func RoleGuard(roles RoleSource) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		res := Resolve(roles.Role(), ctx.Request.URL.Path)
		if res.Redirect {
			ctx.Redirect(http.StatusTemporaryRedirect, res.Path)
			ctx.Abort()
			return
		}
		ctx.Set(LayoutContextKey, res.Layout)
		ctx.Next()
	}
}
