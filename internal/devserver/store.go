package devserver

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/HYB-0225/nextkey/config"
	"github.com/HYB-0225/nextkey/internal/dto"
)

var (
	ErrAuthFailed       = errors.New("authentication failed")
	ErrCardNotFound     = errors.New("card not found")
	ErrCardFrozen       = errors.New("card is frozen")
	ErrCardExpired      = errors.New("card has expired")
	ErrCloudVarNotFound = errors.New("cloud variable not found")
	ErrUnbindDisabled   = errors.New("unbinding is disabled for this project")
	ErrHWIDRequired     = errors.New("hwid is required")
	ErrHWIDNotBound     = errors.New("device is not bound to this card")
	ErrProjectMismatch  = errors.New("unknown project")
)

// unlimited disables a HWID or IP bound.
const unlimited = -1

// Store is the in-memory state of one project.
type Store struct {
	mu        sync.Mutex
	project   config.ProjectConfig
	cards     map[string]*dto.CardInfo
	cloudVars map[string]dto.CloudVarData
	now       func() time.Time
}

func NewStore(project config.ProjectConfig, seed config.SeedConfig, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	s := &Store{
		project:   project,
		cards:     make(map[string]*dto.CardInfo, len(seed.Cards)),
		cloudVars: make(map[string]dto.CloudVarData, len(seed.CloudVars)),
		now:       now,
	}
	for _, key := range seed.Cards {
		s.AddCard(key, seed.CardDuration, seed.MaxHWID, seed.MaxIP)
	}

	keys := make([]string, 0, len(seed.CloudVars))
	for k := range seed.CloudVars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		s.SetCloudVar(k, seed.CloudVars[k])
	}
	return s
}

// AddCard registers a not yet activated card. A zero duration never expires.
func (s *Store) AddCard(key string, duration time.Duration, maxHWID, maxIP int) dto.CardInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	card := &dto.CardInfo{
		ID:       uint64(len(s.cards) + 1),
		CardKey:  key,
		Duration: int64(duration / time.Second),
		CardType: "normal",
		MaxHWID:  maxHWID,
		MaxIP:    maxIP,
	}
	s.cards[key] = card
	return *card
}

func (s *Store) SetCloudVar(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.cloudVars[key]
	if !ok {
		v = dto.CloudVarData{ID: uint64(len(s.cloudVars) + 1), ProjectID: 1, Key: key}
	}
	v.Value = value
	s.cloudVars[key] = v
}

// FreezeCard marks a card frozen so that every further login fails.
func (s *Store) FreezeCard(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, ok := s.cards[key]
	if !ok {
		return ErrCardNotFound
	}
	card.Frozen = true
	return nil
}

func (s *Store) Card(id uint64) (dto.CardInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, err := s.cardByID(id)
	if err != nil {
		return dto.CardInfo{}, err
	}
	return snapshot(card), nil
}

// Login activates the card on first use and binds the device and address.
func (s *Store) Login(req dto.LoginRequest) (dto.CardInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.ProjectUUID != s.project.UUID {
		return dto.CardInfo{}, ErrAuthFailed
	}
	card, ok := s.cards[req.CardKey]
	if !ok {
		return dto.CardInfo{}, ErrAuthFailed
	}

	if !card.Activated {
		activatedAt := s.now()
		card.Activated = true
		card.ActivatedAt = &activatedAt
		if card.Duration > 0 {
			expireAt := activatedAt.Add(time.Duration(card.Duration) * time.Second)
			card.ExpireAt = &expireAt
		}
	}
	// login failures are indistinguishable to the caller
	if s.usable(card) != nil {
		return dto.CardInfo{}, ErrAuthFailed
	}

	if s.project.EnableHWID {
		list, err := bind(card.HWIDList, req.HWID, card.MaxHWID)
		if err != nil {
			return dto.CardInfo{}, err
		}
		card.HWIDList = list
	}
	if s.project.EnableIP {
		list, err := bind(card.IPList, req.IP, card.MaxIP)
		if err != nil {
			return dto.CardInfo{}, err
		}
		card.IPList = list
	}
	return snapshot(card), nil
}

// Heartbeat fails once the card stops being usable.
func (s *Store) Heartbeat(id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, err := s.cardByID(id)
	if err != nil {
		return err
	}
	return s.usable(card)
}

func (s *Store) UpdateCustomData(id uint64, data string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, err := s.cardByID(id)
	if err != nil {
		return err
	}
	card.CustomData = data
	return nil
}

func (s *Store) CloudVar(key string) (dto.CloudVarData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.cloudVars[key]
	if !ok {
		return dto.CloudVarData{}, ErrCloudVarNotFound
	}
	return v, nil
}

func (s *Store) ProjectInfo() dto.ProjectInfo {
	return dto.ProjectInfo{
		UUID:      s.project.UUID,
		Name:      s.project.Name,
		Version:   s.project.Version,
		UpdateURL: s.project.UpdateURL,
	}
}

// Unbind removes hwid from the card's device list.
func (s *Store) Unbind(req dto.UnbindRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.project.EnableUnbind {
		return ErrUnbindDisabled
	}
	if req.ProjectUUID != s.project.UUID {
		return ErrProjectMismatch
	}
	card, ok := s.cards[req.CardKey]
	if !ok {
		return ErrCardNotFound
	}
	if card.Frozen {
		return ErrCardFrozen
	}
	if req.HWID == "" {
		return ErrHWIDRequired
	}

	kept := make([]string, 0, len(card.HWIDList))
	for _, h := range card.HWIDList {
		if h != req.HWID {
			kept = append(kept, h)
		}
	}
	if len(kept) == len(card.HWIDList) {
		return ErrHWIDNotBound
	}
	card.HWIDList = kept
	return nil
}

func (s *Store) cardByID(id uint64) (*dto.CardInfo, error) {
	for _, c := range s.cards {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, ErrCardNotFound
}

func (s *Store) usable(card *dto.CardInfo) error {
	if card.Frozen {
		return ErrCardFrozen
	}
	if card.Activated && card.ExpireAt != nil && card.Duration > 0 && s.now().After(*card.ExpireAt) {
		return ErrCardExpired
	}
	return nil
}

// bind adds value to list unless it is already there or the list is full.
func bind(list []string, value string, limit int) ([]string, error) {
	if value == "" {
		return nil, ErrAuthFailed
	}
	for _, v := range list {
		if v == value {
			return list, nil
		}
	}
	if limit != unlimited && len(list) >= limit {
		return nil, ErrAuthFailed
	}
	return append(list, value), nil
}

func snapshot(card *dto.CardInfo) dto.CardInfo {
	out := *card
	out.HWIDList = append([]string(nil), card.HWIDList...)
	out.IPList = append([]string(nil), card.IPList...)
	return out
}
