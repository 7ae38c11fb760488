package services

import (
	"context"
	"time"

	"ellarises/internal/domain"
)

// Shared hand-written mocks for the service tests. Each mock keeps just
// enough state for the scenarios that use it.

type mockParticipantRepository struct {
	participants map[int64]*domain.Participant
	nextID       int64
	err          error
}

func (m *mockParticipantRepository) Create(ctx context.Context, p *domain.Participant) error {
	if m.err != nil {
		return m.err
	}
	m.nextID++
	p.ID = m.nextID
	if m.participants == nil {
		m.participants = map[int64]*domain.Participant{}
	}
	m.participants[p.ID] = p
	return nil
}

func (m *mockParticipantRepository) GetByID(ctx context.Context, id int64) (*domain.Participant, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.participants[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (m *mockParticipantRepository) ListByParentID(ctx context.Context, parentID int64) ([]*domain.Participant, error) {
	var out []*domain.Participant
	for _, p := range m.participants {
		if p.ParentID == parentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockParticipantRepository) Update(ctx context.Context, p *domain.Participant) error {
	if _, ok := m.participants[p.ID]; !ok {
		return domain.ErrNotFound
	}
	m.participants[p.ID] = p
	return nil
}

type mockParentRepository struct {
	parents map[int64]*domain.Parent
	nextID  int64
}

func (m *mockParentRepository) Create(ctx context.Context, parent *domain.Parent) error {
	m.nextID++
	parent.ID = m.nextID
	if m.parents == nil {
		m.parents = map[int64]*domain.Parent{}
	}
	m.parents[parent.ID] = parent
	return nil
}

func (m *mockParentRepository) GetByID(ctx context.Context, id int64) (*domain.Parent, error) {
	p, ok := m.parents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (m *mockParentRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Parent, error) {
	for _, p := range m.parents {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockParentRepository) Update(ctx context.Context, parent *domain.Parent) error {
	if _, ok := m.parents[parent.ID]; !ok {
		return domain.ErrNotFound
	}
	m.parents[parent.ID] = parent
	return nil
}

type mockOccurrenceRepository struct {
	occurrences map[int64]*domain.Occurrence
	nextID      int64
	batchErr    error
}

func (m *mockOccurrenceRepository) Create(ctx context.Context, o *domain.Occurrence) error {
	m.nextID++
	o.ID = m.nextID
	if m.occurrences == nil {
		m.occurrences = map[int64]*domain.Occurrence{}
	}
	m.occurrences[o.ID] = o
	return nil
}

func (m *mockOccurrenceRepository) CreateBatch(ctx context.Context, occs []*domain.Occurrence) error {
	if m.batchErr != nil {
		return m.batchErr
	}
	for _, o := range occs {
		if err := m.Create(ctx, o); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockOccurrenceRepository) GetByID(ctx context.Context, id int64) (*domain.Occurrence, error) {
	o, ok := m.occurrences[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func (m *mockOccurrenceRepository) ListByEventID(ctx context.Context, eventID int64) ([]*domain.Occurrence, error) {
	var out []*domain.Occurrence
	for _, o := range m.occurrences {
		if o.EventID == eventID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockOccurrenceRepository) ListOpen(ctx context.Context, asOf time.Time) ([]*domain.Occurrence, error) {
	var out []*domain.Occurrence
	for _, o := range m.occurrences {
		if !o.DeadlineDate.Before(asOf) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockOccurrenceRepository) Update(ctx context.Context, o *domain.Occurrence) error {
	if _, ok := m.occurrences[o.ID]; !ok {
		return domain.ErrNotFound
	}
	m.occurrences[o.ID] = o
	return nil
}

type mockRegistrationRepository struct {
	regs            map[int64]*domain.Registration
	nextID          int64
	fanOutPerOcc    int64
	fanOutPerPart   int64
	fanOutOccCalls  []int64
	fanOutPartCalls []int64
	checkedIn       []int64
	statusUpdates   map[int64]string
}

func (m *mockRegistrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	m.nextID++
	reg.ID = m.nextID
	if m.regs == nil {
		m.regs = map[int64]*domain.Registration{}
	}
	m.regs[reg.ID] = reg
	return nil
}

func (m *mockRegistrationRepository) GetByID(ctx context.Context, id int64) (*domain.Registration, error) {
	reg, ok := m.regs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return reg, nil
}

func (m *mockRegistrationRepository) GetByParticipantAndOccurrence(ctx context.Context, participantID, occurrenceID int64) (*domain.Registration, error) {
	for _, reg := range m.regs {
		if reg.ParticipantID == participantID && reg.OccurrenceID == occurrenceID {
			return reg, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockRegistrationRepository) ListByParticipantID(ctx context.Context, participantID int64) ([]*domain.RegistrationWithOccurrence, error) {
	return nil, nil
}

func (m *mockRegistrationRepository) ListByOccurrenceID(ctx context.Context, occurrenceID int64) ([]*domain.Registration, error) {
	var out []*domain.Registration
	for _, reg := range m.regs {
		if reg.OccurrenceID == occurrenceID {
			out = append(out, reg)
		}
	}
	return out, nil
}

func (m *mockRegistrationRepository) UpdateStatus(ctx context.Context, registrationID int64, status string) error {
	reg, ok := m.regs[registrationID]
	if !ok {
		return domain.ErrNotFound
	}
	reg.Status = status
	if m.statusUpdates == nil {
		m.statusUpdates = map[int64]string{}
	}
	m.statusUpdates[registrationID] = status
	return nil
}

func (m *mockRegistrationRepository) CheckIn(ctx context.Context, registrationID int64, at time.Time) error {
	reg, ok := m.regs[registrationID]
	if !ok {
		return domain.ErrNotFound
	}
	reg.Attended = true
	reg.CheckinAt = &at
	m.checkedIn = append(m.checkedIn, registrationID)
	return nil
}

func (m *mockRegistrationRepository) FanOutOccurrence(ctx context.Context, occurrenceID int64) (int64, error) {
	m.fanOutOccCalls = append(m.fanOutOccCalls, occurrenceID)
	return m.fanOutPerOcc, nil
}

func (m *mockRegistrationRepository) FanOutParticipant(ctx context.Context, participantID int64, asOf time.Time) (int64, error) {
	m.fanOutPartCalls = append(m.fanOutPartCalls, participantID)
	return m.fanOutPerPart, nil
}

type mockSurveyRepository struct {
	surveys      map[int64]*domain.Survey
	blankCreated []int64
	upserted     []*domain.Survey
}

func (m *mockSurveyRepository) CreateBlank(ctx context.Context, registrationID int64) error {
	m.blankCreated = append(m.blankCreated, registrationID)
	if m.surveys == nil {
		m.surveys = map[int64]*domain.Survey{}
	}
	if _, ok := m.surveys[registrationID]; !ok {
		m.surveys[registrationID] = &domain.Survey{ID: registrationID, RegistrationID: registrationID}
	}
	return nil
}

func (m *mockSurveyRepository) GetByRegistrationID(ctx context.Context, registrationID int64) (*domain.Survey, error) {
	s, ok := m.surveys[registrationID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (m *mockSurveyRepository) Upsert(ctx context.Context, survey *domain.Survey) error {
	if m.surveys == nil {
		m.surveys = map[int64]*domain.Survey{}
	}
	if existing, ok := m.surveys[survey.RegistrationID]; ok {
		survey.ID = existing.ID
	} else {
		survey.ID = survey.RegistrationID
	}
	m.surveys[survey.RegistrationID] = survey
	m.upserted = append(m.upserted, survey)
	return nil
}

func (m *mockSurveyRepository) ListResponses(ctx context.Context, p domain.PaginationParams) ([]*domain.SurveyResponse, int, error) {
	return nil, 0, nil
}

func (m *mockSurveyRepository) Delete(ctx context.Context, surveyID int64) error {
	return nil
}

type mockEventRepository struct {
	events map[int64]*domain.Event
	nextID int64
}

func (m *mockEventRepository) Create(ctx context.Context, e *domain.Event) error {
	m.nextID++
	e.ID = m.nextID
	if m.events == nil {
		m.events = map[int64]*domain.Event{}
	}
	m.events[e.ID] = e
	return nil
}

func (m *mockEventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func (m *mockEventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range m.events {
		out = append(out, e)
	}
	return out, nil
}

func (m *mockEventRepository) Update(ctx context.Context, e *domain.Event) error {
	if _, ok := m.events[e.ID]; !ok {
		return domain.ErrNotFound
	}
	m.events[e.ID] = e
	return nil
}

type mockCascadeRepository struct {
	deletedEvents       []int64
	deletedOccurrences  []int64
	deletedParticipants []int64
	deletedAccounts     []int64
	err                 error
}

func (m *mockCascadeRepository) DeleteEvent(ctx context.Context, eventID int64) error {
	if m.err != nil {
		return m.err
	}
	m.deletedEvents = append(m.deletedEvents, eventID)
	return nil
}

func (m *mockCascadeRepository) DeleteOccurrence(ctx context.Context, occurrenceID int64) error {
	if m.err != nil {
		return m.err
	}
	m.deletedOccurrences = append(m.deletedOccurrences, occurrenceID)
	return nil
}

func (m *mockCascadeRepository) DeleteParticipant(ctx context.Context, participantID int64) error {
	if m.err != nil {
		return m.err
	}
	m.deletedParticipants = append(m.deletedParticipants, participantID)
	return nil
}

func (m *mockCascadeRepository) DeleteParentAccount(ctx context.Context, userID int64) error {
	if m.err != nil {
		return m.err
	}
	m.deletedAccounts = append(m.deletedAccounts, userID)
	return nil
}
