package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/xavierca1/ligue-convenios/internal/entity"
)

// Flat price per sold card, in the dashboard's currency unit.
const (
	IndividualCardPrice = 100
	EnterpriseCardPrice = 90
)

const defaultRankingSize = 5

func Revenue(individual, enterprise int) int {
	return individual*IndividualCardPrice + enterprise*EnterpriseCardPrice
}

type SellerRanking struct {
	SellerID string `json:"seller_id"`
	Name     string `json:"name"`
	Sales    int    `json:"sales"`
	Revenue  int    `json:"revenue"`
}

type ClinicRanking struct {
	ClinicID string `json:"clinic_id"`
	Name     string `json:"name"`
	Sales    int    `json:"sales"`
	Revenue  int    `json:"revenue"`
}

type Summary struct {
	From             time.Time       `json:"from"`
	To               time.Time       `json:"to"`
	NewPatients      int             `json:"new_patients"`
	RenewedPatients  int             `json:"renewed_patients"`
	Enterprise       int             `json:"enterprise"`
	Individual       int             `json:"individual"`
	Revenue          int             `json:"revenue"`
	ActivePatients   int             `json:"active_patients"`
	InactivePatients int             `json:"inactive_patients"`
	TopSellers       []SellerRanking `json:"top_sellers"`
	TopClinics       []ClinicRanking `json:"top_clinics"`
}

type MonthlyRevenue struct {
	Month      string `json:"month"`
	Individual int    `json:"individual"`
	Enterprise int    `json:"enterprise"`
	Revenue    int    `json:"revenue"`
}

type ReportUseCase struct {
	Patients    entity.PatientRepositoryInterface
	Sellers     entity.SellerRepositoryInterface
	Clinics     entity.ClinicRepositoryInterface
	Calendar    entity.Calendar
	Now         Clock
	RankingSize int
}

func NewReportUseCase(
	patients entity.PatientRepositoryInterface,
	sellers entity.SellerRepositoryInterface,
	clinics entity.ClinicRepositoryInterface,
	calendar entity.Calendar,
) *ReportUseCase {
	return &ReportUseCase{
		Patients:    patients,
		Sellers:     sellers,
		Clinics:     clinics,
		Calendar:    calendar,
		RankingSize: defaultRankingSize,
	}
}

func (uc *ReportUseCase) authorize(scope *Scope) error {
	if scope == nil {
		return errUnauthorized()
	}
	if !scope.Can(entity.PermissionReportRead) {
		return errForbidden("papel sem permissão para relatórios")
	}
	return nil
}

// Summary aggregates sales whose activation or renewal falls in [from, to].
// Read failures degrade to an empty summary.
func (uc *ReportUseCase) Summary(ctx context.Context, scope *Scope, from, to time.Time) (*Summary, error) {
	if err := uc.authorize(scope); err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, errValidation("validation failed: to: must not be before from")
	}

	summary := &Summary{
		From:       from,
		To:         to,
		TopSellers: []SellerRanking{},
		TopClinics: []ClinicRanking{},
	}

	uc.sweep(ctx)

	if len(scope.ClinicIDs) == 0 {
		return summary, nil
	}

	filter := scope.PatientFilter()
	patients, err := uc.Patients.ListActivity(ctx, filter, from, to)
	if err != nil {
		slog.Error("summary: failed to load patients, returning empty data", "error", err)
		return summary, nil
	}

	sellers := map[string]*SellerRanking{}
	clinics := map[string]*ClinicRanking{}

	count := func(p *entity.Patient) {
		price := IndividualCardPrice
		if p.CardType == entity.CardTypeEnterprise {
			summary.Enterprise++
			price = EnterpriseCardPrice
		} else {
			summary.Individual++
		}

		s, ok := sellers[p.SellerID]
		if !ok {
			s = &SellerRanking{SellerID: p.SellerID}
			sellers[p.SellerID] = s
		}
		s.Sales++
		s.Revenue += price

		c, ok := clinics[p.ClinicID]
		if !ok {
			c = &ClinicRanking{ClinicID: p.ClinicID}
			clinics[p.ClinicID] = c
		}
		c.Sales++
		c.Revenue += price
	}

	for _, p := range patients {
		if inRange(p.ActiveAt, from, to) {
			summary.NewPatients++
			count(p)
		}
		if inRange(p.ReactivatedAt, from, to) {
			summary.RenewedPatients++
			count(p)
		}
	}
	summary.Revenue = Revenue(summary.Individual, summary.Enterprise)

	active, inactive, err := uc.Patients.CountByStatus(ctx, filter)
	if err != nil {
		slog.Error("summary: failed to count patients", "error", err)
	} else {
		summary.ActivePatients = active
		summary.InactivePatients = inactive
	}

	summary.TopSellers = uc.rankSellers(ctx, scope, sellers)
	summary.TopClinics = uc.rankClinics(ctx, scope, clinics)

	return summary, nil
}

// Monthly buckets each patient by the month of its last sale (renewal when
// present, first activation otherwise).
func (uc *ReportUseCase) Monthly(ctx context.Context, scope *Scope, year int) ([]MonthlyRevenue, error) {
	if err := uc.authorize(scope); err != nil {
		return nil, err
	}
	if year < 2000 || year > 9999 {
		return nil, errValidation("validation failed: year: is invalid")
	}

	loc := uc.Calendar.Location
	if loc == nil {
		loc = time.UTC
	}

	months := make([]MonthlyRevenue, 12)
	for i := range months {
		months[i].Month = fmt.Sprintf("%04d-%02d", year, i+1)
	}

	uc.sweep(ctx)

	if len(scope.ClinicIDs) == 0 {
		return months, nil
	}

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	to := from.AddDate(1, 0, 0).Add(-time.Nanosecond)

	patients, err := uc.Patients.ListActivity(ctx, scope.PatientFilter(), from, to)
	if err != nil {
		slog.Error("monthly: failed to load patients, returning empty data", "error", err)
		return months, nil
	}

	for _, p := range patients {
		t := p.LastSaleAt()
		if t == nil {
			continue
		}
		local := t.In(loc)
		if local.Year() != year {
			continue
		}
		m := &months[local.Month()-1]
		if p.CardType == entity.CardTypeEnterprise {
			m.Enterprise++
		} else {
			m.Individual++
		}
	}
	for i := range months {
		months[i].Revenue = Revenue(months[i].Individual, months[i].Enterprise)
	}

	return months, nil
}

// sweep runs the expiration update before reads. Its outcome never affects
// the report.
func (uc *ReportUseCase) sweep(ctx context.Context) {
	n, err := uc.Patients.DeactivateExpired(ctx, uc.Now.now())
	if err != nil {
		slog.Warn("expiration sweep failed", "error", err)
		return
	}
	if n > 0 {
		slog.Info("expired patients deactivated", "count", n)
	}
}

func (uc *ReportUseCase) rankSellers(ctx context.Context, scope *Scope, byID map[string]*SellerRanking) []SellerRanking {
	if all, err := uc.Sellers.ListByClinicIDs(ctx, scope.ClinicIDs); err != nil {
		slog.Warn("summary: seller names unavailable", "error", err)
	} else {
		for _, s := range all {
			if r, ok := byID[s.ID]; ok {
				r.Name = s.Name
			}
		}
	}

	out := make([]SellerRanking, 0, len(byID))
	for _, r := range byID {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sales != out[j].Sales {
			return out[i].Sales > out[j].Sales
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].SellerID < out[j].SellerID
	})
	return truncate(out, uc.rankingSize())
}

func (uc *ReportUseCase) rankClinics(ctx context.Context, scope *Scope, byID map[string]*ClinicRanking) []ClinicRanking {
	if all, err := uc.Clinics.ListByIDs(ctx, scope.ClinicIDs); err != nil {
		slog.Warn("summary: clinic names unavailable", "error", err)
	} else {
		for _, c := range all {
			if r, ok := byID[c.ID]; ok {
				r.Name = c.Name
			}
		}
	}

	out := make([]ClinicRanking, 0, len(byID))
	for _, r := range byID {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sales != out[j].Sales {
			return out[i].Sales > out[j].Sales
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ClinicID < out[j].ClinicID
	})
	return truncate(out, uc.rankingSize())
}

func (uc *ReportUseCase) rankingSize() int {
	if uc.RankingSize < 1 {
		return defaultRankingSize
	}
	return uc.RankingSize
}

func truncate[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func inRange(t *time.Time, from, to time.Time) bool {
	return t != nil && !t.Before(from) && !t.After(to)
}
