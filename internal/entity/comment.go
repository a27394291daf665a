package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	CommentTypeComment = "Comment"
	DoctypeLeads       = "Leads"
)

type Comment struct {
	ID               string    `json:"id"`
	CommentType      string    `json:"comment_type"`
	ReferenceDoctype string    `json:"reference_doctype"`
	ReferenceName    string    `json:"reference_name"`
	Content          string    `json:"content"`
	CommentBy        string    `json:"comment_by"`
	CreatedAt        time.Time `json:"creation"`
}

func NewLeadComment(leadID, content, commentBy string) *Comment {
	return &Comment{
		ID:               uuid.New().String(),
		CommentType:      CommentTypeComment,
		ReferenceDoctype: DoctypeLeads,
		ReferenceName:    leadID,
		Content:          content,
		CommentBy:        commentBy,
		CreatedAt:        time.Now(),
	}
}
