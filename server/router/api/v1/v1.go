// Package v1 exposes the availability pipeline over the public REST surface.
package v1

import (
	"github.com/labstack/echo/v4"

	"github.com/hrygo/slotsense/internal/profile"
	"github.com/hrygo/slotsense/server/availability"
)

// APIV1Service wires the availability pipeline to the HTTP routes.
type APIV1Service struct {
	Profile      *profile.Profile
	Availability *availability.Service
}

// NewAPIV1Service creates the API service.
func NewAPIV1Service(p *profile.Profile, svc *availability.Service) *APIV1Service {
	return &APIV1Service{
		Profile:      p,
		Availability: svc,
	}
}

// RegisterRoutes registers the API routes with the given echo instance.
func (s *APIV1Service) RegisterRoutes(echoServer *echo.Echo) {
	g := echoServer.Group("/api")
	g.GET("/slots", s.GetSlots)
}
