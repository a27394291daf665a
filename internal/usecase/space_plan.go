package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xavierca1/leasing-crm/internal/entity"
)

type SaveRequirementInput struct {
	LeadID             string
	AdditionalComments string
	Location           string
	Floor              string
	NearbyPlace        string
	QuickItemsJSON     string
}

type SaveRequirementOutput struct {
	Message string `json:"message"`
	DocName string `json:"docname"`
}

type quickItem struct {
	Category string `json:"category"`
	Item     string `json:"item"`
	Required int    `json:"required"`
	Quantity int    `json:"quantity"`
	Comment  string `json:"comment"`
}

type PlanPDF struct {
	Name       string `json:"name"`
	Attachment string `json:"attachment"`
	Comment    string `json:"comment"`
	Location   string `json:"location"`
	Floor      string `json:"floor"`
	Approved   *int   `json:"approved,omitempty"`
}

type SpacePlanView struct {
	Name               string                     `json:"name"`
	AdditionalComments string                     `json:"additional_comments"`
	Status             string                     `json:"status"`
	Locations          []entity.SpacePlanLocation `json:"locations"`
	Items              []entity.SpacePlanItem     `json:"items"`
	LatestPDFs         []PlanPDF                  `json:"latest_pdfs"`
	PreviousPDFs       []PlanPDF                  `json:"previous_pdfs"`
}

type SpacePlanLookup struct {
	Exists bool           `json:"exists"`
	Data   *SpacePlanView `json:"data,omitempty"`
}

type SpacePlanDetailRow struct {
	Title      string `json:"name1"`
	Approved   bool   `json:"approved"`
	Attachment string `json:"attachment"`
}

type SpacePlanUseCase struct {
	Plans  SpacePlanRepository
	Logger *zap.Logger
}

func NewSpacePlanUseCase(plans SpacePlanRepository, logger *zap.Logger) *SpacePlanUseCase {
	return &SpacePlanUseCase{Plans: plans, Logger: logger}
}

func parseQuickItems(raw string) ([]entity.SpacePlanItem, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var parsed []quickItem
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, &DomainError{Code: CodeValidation, Message: fmt.Sprintf("invalid quick_items_json: %v", err), Err: err}
	}
	items := make([]entity.SpacePlanItem, 0, len(parsed))
	for _, q := range parsed {
		qty := q.Quantity
		if qty == 0 {
			qty = 1
		}
		items = append(items, entity.SpacePlanItem{
			Category: q.Category,
			Item:     q.Item,
			Required: q.Required,
			Quantity: qty,
			Comment:  q.Comment,
		})
	}
	return items, nil
}

// SaveRequirement adds a location and quick items to the lead's space plan,
// creating the plan when the lead has none. The plan goes back to Required.
func (uc *SpacePlanUseCase) SaveRequirement(ctx context.Context, input SaveRequirementInput) (*SaveRequirementOutput, error) {
	leadID := strings.TrimSpace(input.LeadID)
	if leadID == "" {
		return nil, NewValidationError("lead_id is required and was not provided.")
	}
	items, err := parseQuickItems(input.QuickItemsJSON)
	if err != nil {
		return nil, err
	}
	loc := entity.SpacePlanLocation{
		Location:   input.Location,
		Floor:      input.Floor,
		Attachment: entity.SpacePlanPlaceholderAttachment,
		Comment:    input.NearbyPlace,
	}

	existing, err := uc.Plans.FindByLead(ctx, leadID)
	if err != nil && !isNotFound(err) {
		return nil, structure("load space plan", err)
	}

	if existing != nil {
		if err := uc.Plans.AddRequirement(ctx, existing.Name, input.AdditionalComments, loc, items); err != nil {
			return nil, structure("update space plan", err)
		}
		uc.Logger.Info("space plan requirement added", zap.String("lead_id", leadID), zap.String("space_plan", existing.Name))
		return &SaveRequirementOutput{Message: "Requirement added to existing Space Plan", DocName: existing.Name}, nil
	}

	plan := &entity.SpacePlan{
		Name:               "SP-" + uuid.New().String(),
		LeadID:             leadID,
		AdditionalComments: input.AdditionalComments,
		Status:             entity.SpacePlanStatusRequired,
		Locations:          []entity.SpacePlanLocation{loc},
		Items:              items,
	}
	if err := uc.Plans.Create(ctx, plan); err != nil {
		return nil, structure("create space plan", err)
	}
	uc.Logger.Info("space plan created", zap.String("lead_id", leadID), zap.String("space_plan", plan.Name))
	return &SaveRequirementOutput{Message: "New Space Plan created successfully", DocName: plan.Name}, nil
}

func (uc *SpacePlanUseCase) GetByLead(ctx context.Context, leadID string) (*SpacePlanLookup, error) {
	leadID = strings.TrimSpace(leadID)
	if leadID == "" {
		return nil, NewValidationError("lead_id is required and was not provided.")
	}
	plan, err := uc.Plans.FindByLead(ctx, leadID)
	if err != nil {
		if isNotFound(err) {
			return &SpacePlanLookup{Exists: false}, nil
		}
		return nil, structure("load space plan", err)
	}

	details, err := uc.Plans.ListDetails(ctx, leadID, plan.Name)
	if err != nil {
		return nil, structure("load space plan details", err)
	}
	latest, previous := collectPDFs(details)

	required := make([]entity.SpacePlanItem, 0, len(plan.Items))
	for _, it := range plan.Items {
		if it.Required == 1 {
			required = append(required, it)
		}
	}
	locations := plan.Locations
	if locations == nil {
		locations = []entity.SpacePlanLocation{}
	}

	return &SpacePlanLookup{
		Exists: true,
		Data: &SpacePlanView{
			Name:               plan.Name,
			AdditionalComments: plan.AdditionalComments,
			Status:             plan.Status,
			Locations:          locations,
			Items:              required,
			LatestPDFs:         latest,
			PreviousPDFs:       previous,
		},
	}, nil
}

// collectPDFs takes approved files from each detail's Latest collection and
// every file from its Previous collection.
func collectPDFs(details []entity.SpacePlanDetail) (latest, previous []PlanPDF) {
	latest, previous = []PlanPDF{}, []PlanPDF{}
	for _, d := range details {
		for _, f := range d.Latest {
			if f.Approved && f.Attachment != "" {
				latest = append(latest, PlanPDF{
					Name: f.Name, Attachment: f.Attachment, Comment: f.Comment,
					Location: f.Location, Floor: f.Floor,
				})
			}
		}
		for _, f := range d.Previous {
			if f.Attachment == "" {
				continue
			}
			approved := 0
			if f.Approved {
				approved = 1
			}
			previous = append(previous, PlanPDF{
				Name: f.Name, Attachment: f.Attachment, Comment: f.Comment,
				Location: f.Location, Floor: f.Floor, Approved: &approved,
			})
		}
	}
	return latest, previous
}

func (uc *SpacePlanUseCase) Details(ctx context.Context, planName string) ([]SpacePlanDetailRow, error) {
	if strings.TrimSpace(planName) == "" {
		return nil, NewValidationError("Missing required parameter: lead")
	}
	rows, err := uc.Plans.DetailRows(ctx, planName)
	if err != nil {
		return nil, structure("list space plan details", err)
	}
	out := make([]SpacePlanDetailRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, SpacePlanDetailRow{Title: r.Title, Approved: r.Approved, Attachment: r.Attachment})
	}
	return out, nil
}
