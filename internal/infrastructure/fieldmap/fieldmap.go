package fieldmap

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MuhammadNoman15/kyle-automation/internal/application/port/output"
	"github.com/MuhammadNoman15/kyle-automation/internal/domain/entity"
)

//go:embed intake_form.yaml
var defaultTable []byte

const servicesField = "servicesSelected"

var _ output.FieldCatalog = (*Catalog)(nil)

// Catalog is the immutable set of section tables loaded at start-up.
type Catalog struct {
	sections []entity.SectionSpec
	byName   map[entity.SectionName]int
}

// Load reads the table at path, or the embedded one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Parse(defaultTable)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read field map: %w", err)
	}
	return Parse(data)
}

func Default() *Catalog {
	c, err := Parse(defaultTable)
	if err != nil {
		panic(fmt.Sprintf("embedded field map: %v", err))
	}
	return c
}

type document struct {
	Sections []sectionDoc `yaml:"sections"`
}

type sectionDoc struct {
	Name          string            `yaml:"name"`
	Fields        []fieldDoc        `yaml:"fields"`
	Discriminator *discriminatorDoc `yaml:"discriminator"`
	Ignore        []string          `yaml:"ignore"`
}

type fieldDoc struct {
	Name     string      `yaml:"name"`
	ID       string      `yaml:"id"`
	Kind     string      `yaml:"kind"`
	Options  []optionDoc `yaml:"options"`
	Children []fieldDoc  `yaml:"children"`
}

type optionDoc struct {
	Label string `yaml:"label"`
	ID    string `yaml:"id"`
}

type discriminatorDoc struct {
	Field    string       `yaml:"field"`
	Default  string       `yaml:"default"`
	Settle   string       `yaml:"settle"`
	Variants []variantDoc `yaml:"variants"`
}

type variantDoc struct {
	Value  string     `yaml:"value"`
	Switch *switchDoc `yaml:"switch"`
	Fields []fieldDoc `yaml:"fields"`
}

type switchDoc struct {
	ID      string `yaml:"id"`
	Kind    string `yaml:"kind"`
	Checked bool   `yaml:"checked"`
}

func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse field map: %w", err)
	}
	if len(doc.Sections) == 0 {
		return nil, fmt.Errorf("field map has no sections")
	}

	c := &Catalog{byName: make(map[entity.SectionName]int, len(doc.Sections))}
	for _, sd := range doc.Sections {
		spec, err := sd.toSpec()
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", sd.Name, err)
		}
		if _, dup := c.byName[spec.Name]; dup {
			return nil, fmt.Errorf("section %s declared twice", sd.Name)
		}
		c.byName[spec.Name] = len(c.sections)
		c.sections = append(c.sections, spec)
	}
	return c, nil
}

func (sd sectionDoc) toSpec() (entity.SectionSpec, error) {
	if sd.Name == "" {
		return entity.SectionSpec{}, fmt.Errorf("missing name")
	}
	spec := entity.SectionSpec{Name: entity.SectionName(sd.Name), Ignore: sd.Ignore}

	fields, err := toFields(sd.Fields)
	if err != nil {
		return spec, err
	}
	spec.Fields = fields

	if d := sd.Discriminator; d != nil {
		disc := &entity.Discriminator{Field: d.Field, Default: d.Default}
		if d.Field == "" || len(d.Variants) == 0 {
			return spec, fmt.Errorf("discriminator needs a field and variants")
		}
		if d.Settle != "" {
			settle, err := time.ParseDuration(d.Settle)
			if err != nil {
				return spec, fmt.Errorf("discriminator settle: %w", err)
			}
			disc.Settle = settle
		}
		for _, vd := range d.Variants {
			v := entity.SectionVariant{Value: vd.Value}
			if vd.Switch != nil {
				kind := entity.SwitchKind(vd.Switch.Kind)
				if kind != entity.SwitchRadio && kind != entity.SwitchCheckbox {
					return spec, fmt.Errorf("variant %s: unknown switch kind %q", vd.Value, vd.Switch.Kind)
				}
				v.Switch = &entity.ModeSwitch{ElementID: vd.Switch.ID, Kind: kind, Checked: vd.Switch.Checked}
			}
			if v.Fields, err = toFields(vd.Fields); err != nil {
				return spec, fmt.Errorf("variant %s: %w", vd.Value, err)
			}
			disc.Variants = append(disc.Variants, v)
		}
		if _, ok := disc.Variant(disc.Default); !ok {
			return spec, fmt.Errorf("default variant %q not declared", disc.Default)
		}
		spec.Discriminator = disc
	}
	return spec, nil
}

func toFields(docs []fieldDoc) ([]entity.FieldDescriptor, error) {
	out := make([]entity.FieldDescriptor, 0, len(docs))
	for _, fd := range docs {
		d := entity.FieldDescriptor{
			LogicalName: fd.Name,
			ElementID:   fd.ID,
			Kind:        entity.WidgetKind(fd.Kind),
		}
		for _, o := range fd.Options {
			d.Options = append(d.Options, entity.FieldOption{Label: o.Label, ElementID: o.ID})
		}
		if len(d.Options) > 0 && d.Kind == "" {
			d.Kind = entity.WidgetCheckbox
		}
		children, err := toFields(fd.Children)
		if err != nil {
			return nil, err
		}
		if len(children) > 0 {
			d.Children = children
		}
		if err := d.Validate(); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (c *Catalog) Section(name entity.SectionName) (entity.SectionSpec, bool) {
	i, ok := c.byName[name]
	if !ok {
		return entity.SectionSpec{}, false
	}
	return c.sections[i], true
}

func (c *Catalog) Sections() []entity.SectionSpec {
	out := make([]entity.SectionSpec, len(c.sections))
	copy(out, c.sections)
	return out
}

func (c *Catalog) ServiceOptions() []string {
	spec, ok := c.Section(entity.SectionDivision)
	if !ok {
		return nil
	}
	f, ok := spec.Field(servicesField)
	if !ok {
		return nil
	}
	return f.OptionLabels()
}
