package intent

import (
	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator that knows the per-variant rules of Intent.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(intentStructLevel, Intent{})
	return v
}

func intentStructLevel(sl validator.StructLevel) {
	in := sl.Current().Interface().(Intent)

	if in.Kind.IsSwitch() && in.Intensity == "" {
		sl.ReportError(in.Intensity, "Intensity", "intensity", "required_for_switch", string(in.Kind))
	}
	if in.Kind.HasData() && in.Data == nil {
		sl.ReportError(in.Data, "Data", "data", "required_for_reading", string(in.Kind))
	}
}
