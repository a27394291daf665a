package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/leasing-crm/internal/entity"
)

const (
	BoardTodo       = "Todo"
	BoardInProgress = "In Progress"
	BoardUnknown    = "Unknown"
)

type ProspectBoardItem struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Company     string     `json:"company"`
	DateAndTime *time.Time `json:"dateandtime"`
	Initials    string     `json:"initials"`
	Status      string     `json:"status"`
}

type ProspectJourneyOutput struct {
	entity.ProspectJourney
	Initials string `json:"initials"`
}

type CommentHistoryItem struct {
	CreationDate string `json:"creation_date"`
	Content      string `json:"content"`
	CommentBy    string `json:"comment_by"`
}

type LeadFile struct {
	FileName string `json:"file_name"`
	FileURL  string `json:"file_url"`
}

type RecordVisitInput struct {
	LeadID    string
	Comment   string
	FileNames []string
	FileURLs  []string
	CommentBy string
}

type ProspectUseCase struct {
	Leads    LeadRepository
	Comments CommentRepository
	Files    FileRepository
	Logger   *zap.Logger
}

func NewProspectUseCase(leads LeadRepository, comments CommentRepository, files FileRepository, logger *zap.Logger) *ProspectUseCase {
	return &ProspectUseCase{Leads: leads, Comments: comments, Files: files, Logger: logger}
}

func BoardStatus(leasingStatus string) string {
	switch leasingStatus {
	case entity.StatusProspect, entity.StatusActiveProspect:
		return BoardTodo
	case entity.StatusVisitedProspect:
		return BoardInProgress
	default:
		return BoardUnknown
	}
}

func firstInitial(name string) string {
	r := []rune(strings.ToUpper(name))
	if len(r) == 0 {
		return ""
	}
	return string(r[0])
}

func (uc *ProspectUseCase) ListAssigned(ctx context.Context, user string) ([]ProspectBoardItem, error) {
	if strings.TrimSpace(user) == "" {
		return nil, NewValidationError("Missing required parameter: user")
	}
	cards, err := uc.Leads.ListProspectCards(ctx, user)
	if err != nil {
		return nil, structure("list prospects", err)
	}
	items := make([]ProspectBoardItem, 0, len(cards))
	for _, c := range cards {
		items = append(items, ProspectBoardItem{
			ID:          c.ID,
			Name:        c.Name,
			Company:     c.Company,
			DateAndTime: c.VisitAt,
			Initials:    firstInitial(c.Name),
			Status:      BoardStatus(c.LeasingStatus),
		})
	}
	return items, nil
}

func (uc *ProspectUseCase) Journey(ctx context.Context, leadID string) (*ProspectJourneyOutput, error) {
	if strings.TrimSpace(leadID) == "" {
		return nil, NewValidationError("Missing required parameter: prospectId")
	}
	j, err := uc.Leads.Journey(ctx, leadID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, NewNotFoundError(fmt.Sprintf("Lead %s not found", leadID))
		}
		return nil, structure("load prospect journey", err)
	}
	return &ProspectJourneyOutput{ProspectJourney: *j, Initials: firstInitial(j.Name)}, nil
}

func (uc *ProspectUseCase) CommentHistory(ctx context.Context, leadID string) ([]CommentHistoryItem, error) {
	if strings.TrimSpace(leadID) == "" {
		return nil, NewValidationError("Missing required parameter: prospectId")
	}
	comments, err := uc.Comments.ListForLead(ctx, leadID)
	if err != nil {
		return nil, structure("list comments", err)
	}
	out := make([]CommentHistoryItem, 0, len(comments))
	for _, c := range comments {
		out = append(out, CommentHistoryItem{
			CreationDate: c.CreatedAt.Format(time.DateOnly),
			Content:      c.Content,
			CommentBy:    c.CommentBy,
		})
	}
	return out, nil
}

func (uc *ProspectUseCase) MarkVisited(ctx context.Context, leadID string) error {
	if strings.TrimSpace(leadID) == "" {
		return NewValidationError("Missing required parameter: lead")
	}
	if err := uc.Leads.UpdateLeasingStatus(ctx, leadID, entity.StatusVisitedProspect); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return NewNotFoundError(fmt.Sprintf("Lead %s not found", leadID))
		}
		return structure("update leasing status", err)
	}
	return nil
}

// VisitCommentContent renders the comment body stored for a visit, listing
// the attached files under the free text.
func VisitCommentContent(comment string, names, urls []string) string {
	var b strings.Builder
	b.WriteString("Visit Comment: ")
	b.WriteString(comment)

	if len(names) > 0 && strings.TrimSpace(names[0]) != "" {
		b.WriteString("\n\nAttached Files:\n")
		for i, name := range names {
			if strings.TrimSpace(name) == "" {
				continue
			}
			b.WriteString("- ")
			b.WriteString(name)
			if i < len(urls) && urls[i] != "" {
				fmt.Fprintf(&b, " (%s)", urls[i])
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// RecordVisit stores the visit comment and attaches the uploaded files to the
// lead. A file that cannot be attached is logged and skipped.
func (uc *ProspectUseCase) RecordVisit(ctx context.Context, input RecordVisitInput) error {
	if strings.TrimSpace(input.LeadID) == "" {
		return NewValidationError("Missing required parameter: lead")
	}
	log := uc.Logger.With(zap.String("lead_id", input.LeadID), zap.String("comment_by", input.CommentBy))

	content := VisitCommentContent(input.Comment, input.FileNames, input.FileURLs)
	if err := uc.Comments.Create(ctx, entity.NewLeadComment(input.LeadID, content, input.CommentBy)); err != nil {
		return structure("save visit comment", err)
	}

	for i, name := range input.FileNames {
		if strings.TrimSpace(name) == "" || i >= len(input.FileURLs) || input.FileURLs[i] == "" {
			continue
		}
		url := input.FileURLs[i]
		f, err := uc.Files.FindByURL(ctx, url)
		if err != nil {
			if errors.Is(err, entity.ErrNotFound) {
				log.Warn("file document not found", zap.String("file_url", url))
			} else {
				log.Error("error loading file", zap.String("file_name", name), zap.Error(err))
			}
			continue
		}
		if f.AttachedToLead() {
			continue
		}
		if err := uc.Files.AttachToLead(ctx, f.ID, input.LeadID); err != nil {
			log.Error("error attaching file", zap.String("file_name", name), zap.Error(err))
			continue
		}
		log.Info("file attached to lead", zap.String("file_name", name))
	}

	log.Info("visit comment and attachments saved")
	return nil
}

func (uc *ProspectUseCase) ListFiles(ctx context.Context, leadID string) ([]LeadFile, error) {
	if strings.TrimSpace(leadID) == "" {
		return nil, NewValidationError("Missing required parameter: lead")
	}
	files, err := uc.Files.ListForLead(ctx, leadID)
	if err != nil {
		return nil, structure("list files", err)
	}
	out := make([]LeadFile, 0, len(files))
	for _, f := range files {
		out = append(out, LeadFile{FileName: f.FileName, FileURL: f.FileURL})
	}
	return out, nil
}

// ParseStringList accepts either a JSON array of strings or a bare string.
func ParseStringList(raw string) []string {
	if raw == "" {
		return nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		return list
	}
	var single string
	if err := json.Unmarshal([]byte(raw), &single); err == nil {
		return []string{single}
	}
	return []string{raw}
}
