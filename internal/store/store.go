package store

import (
	"sync"

	"github.com/tomerlv/torbook/internal/domain"
)

// Resolution is the recorded outcome of a display-name lookup for a foreign
// key. Failed entries are sentinels: the key renders as a placeholder and is
// not retried until a full reload drops the entry.
type Resolution struct {
	Name   string
	Failed bool
}

// Store holds the latest known state of each entity kind, keyed by its
// natural key. It is the single source of truth for the client and performs
// no I/O; fetching is the resolver's and reconciler's job.
//
// Meetings keep the order they were stored in. Service and account order is
// not meaningful.
type Store struct {
	mu       sync.Mutex
	business *domain.Business
	services map[string]domain.Service
	accounts map[string]domain.Account
	meetings []domain.Meeting

	serviceNames map[string]Resolution
	accountNames map[string]Resolution
}

func New() *Store {
	return &Store{
		services:     make(map[string]domain.Service),
		accounts:     make(map[string]domain.Account),
		serviceNames: make(map[string]Resolution),
		accountNames: make(map[string]Resolution),
	}
}

// Reset drops all cached state, including failed-resolution sentinels, so
// every key becomes resolvable again. Used on explicit full reload.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.business = nil
	s.services = make(map[string]domain.Service)
	s.accounts = make(map[string]domain.Account)
	s.meetings = nil
	s.serviceNames = make(map[string]Resolution)
	s.accountNames = make(map[string]Resolution)
}

func (s *Store) SetBusiness(b domain.Business) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.business = &b
}

func (s *Store) Business() (domain.Business, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.business == nil {
		return domain.Business{}, false
	}
	return *s.business, true
}

// MergeBusiness applies accepted partial fields onto the cached record.
func (s *Store) MergeBusiness(name, description, managerEmail *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.business == nil {
		return
	}
	if name != nil {
		s.business.Name = *name
	}
	if description != nil {
		s.business.Description = *description
	}
	if managerEmail != nil {
		s.business.ManagerEmail = *managerEmail
	}
}

func (s *Store) ReplaceAllServices(services []domain.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services = make(map[string]domain.Service, len(services))
	for _, svc := range services {
		s.services[svc.ID] = svc
	}
}

func (s *Store) UpsertService(svc domain.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services[svc.ID] = svc
}

func (s *Store) RemoveService(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.services, id)
	delete(s.serviceNames, id)
}

func (s *Store) Service(id string) (domain.Service, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc, ok := s.services[id]
	return svc, ok
}

func (s *Store) Services() []domain.Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Service, 0, len(s.services))
	for _, svc := range s.services {
		out = append(out, svc)
	}
	return out
}

func (s *Store) ReplaceAllAccounts(accounts []domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = make(map[string]domain.Account, len(accounts))
	for _, acct := range accounts {
		s.accounts[acct.Email] = acct
	}
}

func (s *Store) UpsertAccount(acct domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[acct.Email] = acct
}

func (s *Store) Account(email string) (domain.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[email]
	return acct, ok
}

func (s *Store) Accounts() []domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Account, 0, len(s.accounts))
	for _, acct := range s.accounts {
		out = append(out, acct)
	}
	return out
}

// ReplaceAllMeetings installs the canonical list wholesale, in the order
// given. Provisional records from earlier optimistic inserts do not survive;
// the canonical list fully supersedes them.
func (s *Store) ReplaceAllMeetings(meetings []domain.Meeting) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meetings = make([]domain.Meeting, len(meetings))
	copy(s.meetings, meetings)
}

// UpsertMeeting inserts or replaces a single record by id without touching
// the rest of the list. This is the controlled entry point for optimistic
// insertion.
func (s *Store) UpsertMeeting(m domain.Meeting) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.meetings {
		if s.meetings[i].ID.String() == m.ID.String() {
			s.meetings[i] = m
			return
		}
	}
	s.meetings = append(s.meetings, m)
}

func (s *Store) RemoveMeeting(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.meetings {
		if s.meetings[i].ID.String() == id {
			s.meetings = append(s.meetings[:i], s.meetings[i+1:]...)
			return
		}
	}
}

func (s *Store) Meeting(id string) (domain.Meeting, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.meetings {
		if m.ID.String() == id {
			return m, true
		}
	}
	return domain.Meeting{}, false
}

func (s *Store) Meetings() []domain.Meeting {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Meeting, len(s.meetings))
	copy(out, s.meetings)
	return out
}

func (s *Store) SetServiceResolution(id string, res Resolution) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serviceNames[id] = res
}

func (s *Store) ServiceResolution(id string) (Resolution, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.serviceNames[id]
	return res, ok
}

func (s *Store) SetAccountResolution(email string, res Resolution) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accountNames[email] = res
}

func (s *Store) AccountResolution(email string) (Resolution, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.accountNames[email]
	return res, ok
}

// ServiceKeyKnown reports whether a service id needs no lookup: either the
// record is cached or a resolution outcome (success or failure) is recorded.
func (s *Store) ServiceKeyKnown(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.services[id]; ok {
		return true
	}
	_, ok := s.serviceNames[id]
	return ok
}

func (s *Store) AccountKeyKnown(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[email]; ok {
		return true
	}
	_, ok := s.accountNames[email]
	return ok
}
