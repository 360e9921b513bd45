package dto

// Progress update modes. Append unions module ids into the completed set,
// overwrite replaces the whole set, position only moves the playhead.
const (
	ProgressModeAppend    = "append"
	ProgressModeOverwrite = "overwrite"
	ProgressModePosition  = "position"
)

type ProgressUpdateRequest struct {
	CourseID     string   `json:"course_id" validate:"required"`
	Mode         string   `json:"mode" validate:"required,oneof=append overwrite position"`
	ModuleIDs    []string `json:"module_ids,omitempty"`
	LastPosition float64  `json:"last_position,omitempty" validate:"omitempty,gte=0"`
	Percent      float64  `json:"percent,omitempty" validate:"omitempty,gte=0,lte=100"`
}

type ProgressResponse struct {
	CourseID         string   `json:"course_id"`
	CompletedModules []string `json:"completed_modules"`
	LastPosition     float64  `json:"last_position"`
	Percent          float64  `json:"percent"`
}
