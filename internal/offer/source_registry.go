package offer

import (
	"context"

	"order-gateway/internal/template"
	id "order-gateway/pkg/domain"
)

// RegistrySource serves offer displays straight from the template
// registry. The registry is the source of truth for commercial titles
// until the catalog service owns them.
type RegistrySource struct {
	registry *template.Registry
}

// NewRegistrySource wraps a template registry as a display source.
func NewRegistrySource(registry *template.Registry) *RegistrySource {
	return &RegistrySource{registry: registry}
}

func (s *RegistrySource) OfferDisplay(_ context.Context, templateID id.TemplateID) (Display, error) {
	def, err := s.registry.Get(templateID)
	if err != nil {
		return Display{}, err
	}
	return Display{Title: def.Title, OperatorID: def.OperatorID}, nil
}
