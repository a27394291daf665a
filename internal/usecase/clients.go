package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/leasing-crm/internal/entity"
)

type ClientListItem struct {
	ID                   string  `json:"id"`
	LeadID               string  `json:"leadId"`
	Name                 string  `json:"name"`
	Contact              string  `json:"contact"`
	Status               string  `json:"status"`
	Initials             string  `json:"initials"`
	BilledItemsCount     float64 `json:"billedItemsCount"`
	SeatsCount           float64 `json:"seatsCount"`
	AmenitiesCount       float64 `json:"amenitiesCount"`
	TotalAmount          float64 `json:"totalAmount"`
	TotalSeatsAmount     float64 `json:"totalSeatsAmount"`
	TotalAmenitiesAmount float64 `json:"totalAmenitiesAmount"`
	Agreement            string  `json:"agreement"`
	ClientContact
}

// ClientContact is the block of contact fields shared by list and detail views.
type ClientContact struct {
	Company           string `json:"company"`
	AssignedTo        string `json:"assigned_to"`
	ManagedBy         string `json:"managed_by"`
	PrimaryEmail      string `json:"primary_email"`
	SecondaryEmail    string `json:"secondary_email"`
	MobilePhone       string `json:"mobile_phone"`
	AlternativeNumber string `json:"alternative_number"`
	WhatsappLink1     string `json:"whatsapp_link_1"`
	WhatsappLink2     string `json:"whatsapp_link_2"`
	LeadTitle         string `json:"lead_title"`
	Building          string `json:"building"`
	Floor             string `json:"floor"`
	Nearby            string `json:"nearby"`
}

type RecursionLine struct {
	ID                 string     `json:"id"`
	Type               string     `json:"type"`
	Option             string     `json:"option"`
	Quantity           float64    `json:"quantity"`
	Note               string     `json:"note"`
	Rate               float64    `json:"rate"`
	Amount             float64    `json:"amount"`
	StartDate          *time.Time `json:"start_date"`
	StopDate           *time.Time `json:"stop_date"`
	RolloutStatus      string     `json:"rollout_status"`
	Floor              string     `json:"floor"`
	NovelBillingEntity string     `json:"novel_billing_entity"`
	BillingPeriod      string     `json:"billing_period"`
	DepositAmount      float64    `json:"deposit_amt"`
	DepositMonths      int        `json:"deposit_months"`
}

type ClientDetails struct {
	ID                   string          `json:"id"`
	LeadID               string          `json:"leadId"`
	Name                 string          `json:"name"`
	Contact              string          `json:"contact"`
	Status               string          `json:"status"`
	Initials             string          `json:"initials"`
	Agreement            string          `json:"agreement"`
	SeatsRecursion       []RecursionLine `json:"seatsRecursion"`
	AmenityRecursion     []RecursionLine `json:"amenityRecursion"`
	TotalSeatsAmount     float64         `json:"totalSeatsAmount"`
	TotalAmenitiesAmount float64         `json:"totalAmenitiesAmount"`
	TotalAmount          float64         `json:"totalAmount"`
	SeatsCount           int             `json:"seatsCount"`
	AmenitiesCount       int             `json:"amenitiesCount"`
	TotalBilledItems     int             `json:"totalBilledItems"`
	Email                string          `json:"email"`
	WhatsappLink         string          `json:"whatsapp_link"`
	ClientContact
}

type ClientAttachment struct {
	ID            string `json:"id"`
	FileName      string `json:"file_name"`
	FileURL       string `json:"file_url"`
	IsPrivate     bool   `json:"is_private"`
	FileType      string `json:"file_type"`
	FileSize      int64  `json:"file_size"`
	FormattedSize string `json:"formatted_size"`
	ContentHash   string `json:"content_hash"`
}

type LeadSummary struct {
	LeadTitle      string  `json:"lead_title"`
	TotalItems     int     `json:"total_items"`
	SeatsCount     int     `json:"seats_count"`
	AmenitiesCount int     `json:"amenities_count"`
	TotalAmount    float64 `json:"total_amount"`
	SeatsTotal     float64 `json:"seats_total"`
	AmenitiesTotal float64 `json:"amenities_total"`
}

type ClientUseCase struct {
	Leads  LeadRepository
	Files  FileRepository
	Logger *zap.Logger
	Now    func() time.Time
}

func NewClientUseCase(leads LeadRepository, files FileRepository, logger *zap.Logger) *ClientUseCase {
	return &ClientUseCase{Leads: leads, Files: files, Logger: logger, Now: time.Now}
}

func contactOf(l *entity.Lead) ClientContact {
	return ClientContact{
		Company:           l.Company,
		AssignedTo:        l.AssignedTo,
		ManagedBy:         l.ManagedBy,
		PrimaryEmail:      l.PrimaryEmail,
		SecondaryEmail:    l.SecondaryEmail,
		MobilePhone:       l.MobilePhone,
		AlternativeNumber: l.AlternativeNumber,
		WhatsappLink1:     l.WhatsappLink1,
		WhatsappLink2:     l.WhatsappLink2,
		LeadTitle:         l.LeadTitle,
		Building:          l.Building,
		Floor:             l.Floor,
		Nearby:            l.Nearby,
	}
}

func sumQtyAmount(items []entity.BillingItem) (qty, amount float64) {
	for _, it := range items {
		qty += it.Qty
		amount += it.Amount
	}
	return qty, amount
}

// ListForUser returns the caller's clients with billed quantities and amounts.
func (uc *ClientUseCase) ListForUser(ctx context.Context, user string) ([]ClientListItem, error) {
	if strings.TrimSpace(user) == "" {
		return nil, NewValidationError("Missing session user")
	}
	leads, err := uc.Leads.ListByAssignee(ctx, user, entity.StatusClient)
	if err != nil {
		return nil, structure("list clients", err)
	}

	out := make([]ClientListItem, 0, len(leads))
	for _, l := range leads {
		seatQty, seatAmt := sumQtyAmount(l.Seats)
		amenQty, amenAmt := sumQtyAmount(l.Amenities)
		out = append(out, ClientListItem{
			ID:                   l.ID,
			LeadID:               l.ID,
			Name:                 l.Name,
			Contact:              l.Contact(),
			Status:               l.LeasingStatus,
			Initials:             entity.Initials(l.Name),
			BilledItemsCount:     seatQty + amenQty,
			SeatsCount:           seatQty,
			AmenitiesCount:       amenQty,
			TotalAmount:          seatAmt + amenAmt,
			TotalSeatsAmount:     seatAmt,
			TotalAmenitiesAmount: amenAmt,
			Agreement:            l.Agreement,
			ClientContact:        contactOf(l),
		})
	}
	return out, nil
}

func (uc *ClientUseCase) loadLead(ctx context.Context, leadID string) (*entity.Lead, error) {
	if strings.TrimSpace(leadID) == "" {
		return nil, NewValidationError("Lead ID is required")
	}
	l, err := uc.Leads.FindByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, NewNotFoundError(fmt.Sprintf("Lead %s not found", leadID))
		}
		return nil, structure("load lead", err)
	}
	return l, nil
}

func recursionLines(items []entity.BillingItem, kind string) ([]RecursionLine, float64) {
	lines := make([]RecursionLine, 0, len(items))
	var total float64
	for _, it := range items {
		lines = append(lines, RecursionLine{
			ID:                 it.ID,
			Type:               kind,
			Option:             it.ItemCode,
			Quantity:           it.Qty,
			Note:               it.SalesDescription,
			Rate:               it.Rate,
			Amount:             it.Amount,
			StartDate:          it.StartDate,
			StopDate:           it.StopDate,
			RolloutStatus:      it.RolloutStatus,
			Floor:              it.Floor,
			NovelBillingEntity: it.NovelBillingEntity,
			BillingPeriod:      it.BillingPeriod,
			DepositAmount:      it.DepositAmount,
			DepositMonths:      it.DepositMonths,
		})
		total += it.Amount
	}
	return lines, total
}

func (uc *ClientUseCase) Details(ctx context.Context, leadID string) (*ClientDetails, error) {
	l, err := uc.loadLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	seats, seatTotal := recursionLines(l.Seats, entity.ItemKindSeat)
	amenities, amenTotal := recursionLines(l.Amenities, entity.ItemKindAmenity)

	email := l.PrimaryEmail
	if email == "" {
		email = l.SecondaryEmail
	}
	whatsapp := l.WhatsappLink1
	if whatsapp == "" {
		whatsapp = l.WhatsappLink2
	}

	return &ClientDetails{
		ID:                   l.ID,
		LeadID:               l.ID,
		Name:                 l.Name,
		Contact:              l.Contact(),
		Status:               l.LeasingStatus,
		Initials:             entity.Initials(l.Name),
		Agreement:            l.Agreement,
		SeatsRecursion:       seats,
		AmenityRecursion:     amenities,
		TotalSeatsAmount:     seatTotal,
		TotalAmenitiesAmount: amenTotal,
		TotalAmount:          seatTotal + amenTotal,
		SeatsCount:           len(seats),
		AmenitiesCount:       len(amenities),
		TotalBilledItems:     len(seats) + len(amenities),
		Email:                email,
		WhatsappLink:         whatsapp,
		ClientContact:        contactOf(l),
	}, nil
}

func (uc *ClientUseCase) Seats(ctx context.Context, leadID string) ([]entity.BillingItem, error) {
	l, err := uc.loadLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if l.Seats == nil {
		return []entity.BillingItem{}, nil
	}
	return l.Seats, nil
}

func (uc *ClientUseCase) Attachments(ctx context.Context, leadID string) ([]ClientAttachment, error) {
	if _, err := uc.loadLead(ctx, leadID); err != nil {
		return nil, err
	}
	files, err := uc.Files.ListForLead(ctx, leadID)
	if err != nil {
		return nil, structure("list attachments", err)
	}
	out := make([]ClientAttachment, 0, len(files))
	for _, f := range files {
		out = append(out, ClientAttachment{
			ID:            f.ID,
			FileName:      f.FileName,
			FileURL:       f.FileURL,
			IsPrivate:     f.IsPrivate,
			FileType:      FileType(f.FileName),
			FileSize:      f.FileSize,
			FormattedSize: FormatFileSize(f.FileSize),
			ContentHash:   f.ContentHash,
		})
	}
	return out, nil
}

func (uc *ClientUseCase) Summary(ctx context.Context, leadID string) (*LeadSummary, error) {
	d, err := uc.Details(ctx, leadID)
	if err != nil {
		return nil, err
	}
	return summaryOf(d), nil
}

func summaryOf(d *ClientDetails) *LeadSummary {
	return &LeadSummary{
		LeadTitle:      d.LeadTitle,
		TotalItems:     d.TotalBilledItems,
		SeatsCount:     d.SeatsCount,
		AmenitiesCount: d.AmenitiesCount,
		TotalAmount:    d.TotalAmount,
		SeatsTotal:     d.TotalSeatsAmount,
		AmenitiesTotal: d.TotalAmenitiesAmount,
	}
}

// FileType buckets a file by extension.
func FileType(fileName string) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(fileName)), ".")
	switch ext {
	case "pdf":
		return "pdf"
	case "jpg", "jpeg", "png", "gif", "bmp", "svg":
		return "image"
	case "doc", "docx":
		return "document"
	case "xls", "xlsx":
		return "spreadsheet"
	case "txt", "md":
		return "text"
	default:
		return "other"
	}
}

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatFileSize renders a byte count with a binary unit and at most two decimals.
func FormatFileSize(size int64) string {
	if size <= 0 {
		return "0 B"
	}
	i := int(math.Floor(math.Log(float64(size)) / math.Log(1024)))
	if i >= len(sizeUnits) {
		i = len(sizeUnits) - 1
	}
	v := math.Round(float64(size)/math.Pow(1024, float64(i))*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}
