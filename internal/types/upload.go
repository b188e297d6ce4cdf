package types

// UploadRequest is a résumé upload paired with the target job description.
// Either JobDescription or JobURL must be present.
type UploadRequest struct {
	FileName       string `json:"file_name" validate:"required,min=1"`
	ContentType    string `json:"content_type,omitempty"`
	Size           int64  `json:"size" validate:"gt=0"`
	JobDescription string `json:"job_description" validate:"required_without=JobURL"`
	JobURL         string `json:"job_url,omitempty" validate:"omitempty,url"`
	OutputName     string `json:"output_name,omitempty"`
}
