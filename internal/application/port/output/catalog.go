package output

import "github.com/MuhammadNoman15/kyle-automation/internal/domain/entity"

type FieldCatalog interface {
	Section(name entity.SectionName) (entity.SectionSpec, bool)
	Sections() []entity.SectionSpec
	// ServiceOptions lists the selectable division services in table order.
	ServiceOptions() []string
}
