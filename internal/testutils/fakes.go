package testutils

import (
	"sort"
	"strings"
	"sync"
	"time"

	"volunteer-rota-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository fakes for unit tests. They mirror the postgres
// repositories' behavior closely enough for the service layer: gorm's
// ErrRecordNotFound on misses, copies on reads so callers cannot mutate the
// store, ordered listings.

// FakeContactRepo is an in-memory contact repository
type FakeContactRepo struct {
	mu       sync.Mutex
	contacts map[uuid.UUID]models.Contact
}

// NewFakeContactRepo creates an empty in-memory contact repository
func NewFakeContactRepo() *FakeContactRepo {
	return &FakeContactRepo{contacts: make(map[uuid.UUID]models.Contact)}
}

func (r *FakeContactRepo) Create(contact *models.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if contact.ID == uuid.Nil {
		contact.ID = uuid.New()
	}
	contact.Email = strings.ToLower(contact.Email)
	r.contacts[contact.ID] = *contact
	return nil
}

func (r *FakeContactRepo) GetByID(id uuid.UUID) (*models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contacts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := c
	return &out, nil
}

func (r *FakeContactRepo) GetByEmail(email string) (*models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.contacts {
		if c.Email == strings.ToLower(email) {
			out := c
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *FakeContactRepo) GetAll(limit, offset int) ([]models.Contact, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Contact, 0, len(r.contacts))
	for _, c := range r.contacts {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (r *FakeContactRepo) GetExistingIDs(ids []uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []uuid.UUID
	for _, id := range ids {
		if _, ok := r.contacts[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *FakeContactRepo) Update(contact *models.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.contacts[contact.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.contacts[contact.ID] = *contact
	return nil
}

func (r *FakeContactRepo) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.contacts, id)
	return nil
}

// FakeEventRepo is an in-memory event repository
type FakeEventRepo struct {
	mu     sync.Mutex
	events map[uuid.UUID]models.Event
}

// NewFakeEventRepo creates an empty in-memory event repository
func NewFakeEventRepo() *FakeEventRepo {
	return &FakeEventRepo{events: make(map[uuid.UUID]models.Event)}
}

func (r *FakeEventRepo) Create(event *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	r.events[event.ID] = *event
	return nil
}

func (r *FakeEventRepo) GetByID(id uuid.UUID) (*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := e
	return &out, nil
}

func (r *FakeEventRepo) GetAll(limit, offset int) ([]models.Event, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Event, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (r *FakeEventRepo) GetWithOccurrences(id uuid.UUID) (*models.Event, error) {
	return r.GetByID(id)
}

func (r *FakeEventRepo) GetExistingIDs(ids []uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []uuid.UUID
	for _, id := range ids {
		if _, ok := r.events[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *FakeEventRepo) Update(event *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[event.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.events[event.ID] = *event
	return nil
}

func (r *FakeEventRepo) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.events, id)
	return nil
}

// FakeOccurrenceRepo is an in-memory occurrence repository
type FakeOccurrenceRepo struct {
	mu          sync.Mutex
	occurrences map[uuid.UUID]models.Occurrence
}

// NewFakeOccurrenceRepo creates an empty in-memory occurrence repository
func NewFakeOccurrenceRepo() *FakeOccurrenceRepo {
	return &FakeOccurrenceRepo{occurrences: make(map[uuid.UUID]models.Occurrence)}
}

func (r *FakeOccurrenceRepo) Create(occurrence *models.Occurrence) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if occurrence.ID == uuid.Nil {
		occurrence.ID = uuid.New()
	}
	r.occurrences[occurrence.ID] = *occurrence
	return nil
}

func (r *FakeOccurrenceRepo) CreateBatch(occurrences []models.Occurrence) error {
	for i := range occurrences {
		if err := r.Create(&occurrences[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *FakeOccurrenceRepo) GetByID(id uuid.UUID) (*models.Occurrence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.occurrences[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := o
	return &out, nil
}

func (r *FakeOccurrenceRepo) GetByEventID(eventID uuid.UUID) ([]models.Occurrence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Occurrence
	for _, o := range r.occurrences {
		if o.EventID == eventID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

func (r *FakeOccurrenceRepo) GetByEventIDFrom(eventID uuid.UUID, from time.Time) ([]models.Occurrence, error) {
	all, err := r.GetByEventID(eventID)
	if err != nil {
		return nil, err
	}
	var out []models.Occurrence
	for _, o := range all {
		if !o.StartsAt.Before(from) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *FakeOccurrenceRepo) GetAll() ([]models.Occurrence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Occurrence, 0, len(r.occurrences))
	for _, o := range r.occurrences {
		out = append(out, o)
	}
	return out, nil
}

func (r *FakeOccurrenceRepo) Update(occurrence *models.Occurrence) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.occurrences[occurrence.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.occurrences[occurrence.ID] = *occurrence
	return nil
}

func (r *FakeOccurrenceRepo) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.occurrences, id)
	return nil
}

// FakeRotaRepo is an in-memory rota repository
type FakeRotaRepo struct {
	mu    sync.Mutex
	rotas map[uuid.UUID]models.Rota
}

// NewFakeRotaRepo creates an empty in-memory rota repository
func NewFakeRotaRepo() *FakeRotaRepo {
	return &FakeRotaRepo{rotas: make(map[uuid.UUID]models.Rota)}
}

func copyRota(r models.Rota) models.Rota {
	out := r
	out.Assignees = append(models.AssigneeList{}, r.Assignees...)
	return out
}

func (r *FakeRotaRepo) Create(rota *models.Rota) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rota.ID == uuid.Nil {
		rota.ID = uuid.New()
	}
	r.rotas[rota.ID] = copyRota(*rota)
	return nil
}

func (r *FakeRotaRepo) GetByID(id uuid.UUID) (*models.Rota, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rota, ok := r.rotas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := copyRota(rota)
	return &out, nil
}

func (r *FakeRotaRepo) GetByEventID(eventID uuid.UUID) ([]models.Rota, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Rota
	for _, rota := range r.rotas {
		if rota.EventID == eventID {
			out = append(out, copyRota(rota))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Role < out[j].Role })
	return out, nil
}

func (r *FakeRotaRepo) GetByShareToken(token string) (*models.Rota, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rota := range r.rotas {
		if rota.ShareToken == token {
			out := copyRota(rota)
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *FakeRotaRepo) GetAll() ([]models.Rota, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Rota, 0, len(r.rotas))
	for _, rota := range r.rotas {
		out = append(out, copyRota(rota))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Role < out[j].Role })
	return out, nil
}

func (r *FakeRotaRepo) Update(rota *models.Rota) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rotas[rota.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.rotas[rota.ID] = copyRota(*rota)
	return nil
}

func (r *FakeRotaRepo) UpdateAssignees(id uuid.UUID, assignees models.AssigneeList) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rota, ok := r.rotas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	rota.Assignees = append(models.AssigneeList{}, assignees...)
	r.rotas[id] = rota
	return nil
}

func (r *FakeRotaRepo) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rotas, id)
	return nil
}

// FakeLeaveRepo is an in-memory leave period repository
type FakeLeaveRepo struct {
	mu      sync.Mutex
	periods map[uuid.UUID]models.LeavePeriod
}

// NewFakeLeaveRepo creates an empty in-memory leave period repository
func NewFakeLeaveRepo() *FakeLeaveRepo {
	return &FakeLeaveRepo{periods: make(map[uuid.UUID]models.LeavePeriod)}
}

func (r *FakeLeaveRepo) Create(leave *models.LeavePeriod) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if leave.ID == uuid.Nil {
		leave.ID = uuid.New()
	}
	r.periods[leave.ID] = *leave
	return nil
}

func (r *FakeLeaveRepo) GetByContactID(contactID uuid.UUID) ([]models.LeavePeriod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.LeavePeriod
	for _, p := range r.periods {
		if p.ContactID == contactID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *FakeLeaveRepo) GetOverlapping(contactID uuid.UUID, date time.Time) ([]models.LeavePeriod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.LeavePeriod
	for _, p := range r.periods {
		if p.ContactID == contactID && p.Covers(date) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *FakeLeaveRepo) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.periods, id)
	return nil
}
