package core

// Resource is the interface representing a manageable unit on the target
// host. Living in the core package keeps adapter packages free of import
// cycles.
type Resource interface {
	// Validate checks the resource definition before anything touches the
	// target system.
	Validate(ctx *SystemContext) error
	// Check reports whether the target diverges from the desired state.
	// true means Apply has work to do.
	Check(ctx *SystemContext) (bool, error)
	// Apply converges the target towards the desired state.
	Apply(ctx *SystemContext) (Result, error)
	GetName() string
	GetType() string
}

// Differ is implemented by resources that can describe their pending change
// as text. Used by plan output.
type Differ interface {
	Diff(ctx *SystemContext) (string, error)
}

// BaseResource holds common fields.
type BaseResource struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

func (b *BaseResource) GetName() string {
	return b.Name
}

func (b *BaseResource) GetType() string {
	return b.Type
}
