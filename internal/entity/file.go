package entity

type File struct {
	ID                string `json:"id"`
	FileName          string `json:"file_name"`
	FileURL           string `json:"file_url"`
	IsPrivate         bool   `json:"is_private"`
	FileSize          int64  `json:"file_size"`
	ContentHash       string `json:"content_hash"`
	AttachedToDoctype string `json:"attached_to_doctype"`
	AttachedToName    string `json:"attached_to_name"`
}

func (f *File) AttachedToLead() bool {
	return f.AttachedToDoctype == DoctypeLeads
}
