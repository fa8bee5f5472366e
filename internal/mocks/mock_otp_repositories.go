package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
)

// MockPhoneOTPRepository implements domain.PhoneOTPRepository for testing.
// Without overrides it keeps records in memory.
type MockPhoneOTPRepository struct {
	RecordSendFunc   func(ctx context.Context, phone, code string) (*domain.PhoneOTP, error)
	FindByCodeFunc   func(ctx context.Context, code, phone string) (*domain.PhoneOTP, error)
	MarkVerifiedFunc func(ctx context.Context, id uint) error
	ResetCountsFunc  func(ctx context.Context, notUpdatedSince time.Time) (int64, error)

	mu      sync.Mutex
	records map[string]*domain.PhoneOTP
}

// NewMockPhoneOTPRepository creates a new MockPhoneOTPRepository
func NewMockPhoneOTPRepository() *MockPhoneOTPRepository {
	return &MockPhoneOTPRepository{records: make(map[string]*domain.PhoneOTP)}
}

// RecordSend stores code and increments the count for phone
func (m *MockPhoneOTPRepository) RecordSend(ctx context.Context, phone, code string) (*domain.PhoneOTP, error) {
	if m.RecordSendFunc != nil {
		return m.RecordSendFunc(ctx, phone, code)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[phone]
	if !ok {
		rec = &domain.PhoneOTP{ID: uint(len(m.records) + 1), Phone: phone}
		m.records[phone] = rec
	}
	rec.Code = code
	rec.Count++
	rec.UpdatedAt = time.Now()
	out := *rec
	return &out, nil
}

// FindByCode finds the record holding code
func (m *MockPhoneOTPRepository) FindByCode(ctx context.Context, code, phone string) (*domain.PhoneOTP, error) {
	if m.FindByCodeFunc != nil {
		return m.FindByCodeFunc(ctx, code, phone)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.records {
		if rec.Code == code && (phone == "" || rec.Phone == phone) {
			out := *rec
			return &out, nil
		}
	}
	return nil, domain.ErrOTPNotFound
}

// MarkVerified flags the record verified and clears its count
func (m *MockPhoneOTPRepository) MarkVerified(ctx context.Context, id uint) error {
	if m.MarkVerifiedFunc != nil {
		return m.MarkVerifiedFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.records {
		if rec.ID == id {
			rec.Verified = true
			rec.Count = 0
		}
	}
	return nil
}

// ResetCounts clears counts of records not updated since the given time
func (m *MockPhoneOTPRepository) ResetCounts(ctx context.Context, notUpdatedSince time.Time) (int64, error) {
	if m.ResetCountsFunc != nil {
		return m.ResetCountsFunc(ctx, notUpdatedSince)
	}
	return 0, nil
}

// Record returns a copy of the stored record for phone
func (m *MockPhoneOTPRepository) Record(phone string) (domain.PhoneOTP, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[phone]
	if !ok {
		return domain.PhoneOTP{}, false
	}
	return *rec, true
}

// MockOTPCache implements domain.OTPCache in memory for testing
type MockOTPCache struct {
	SetFunc    func(ctx context.Context, phone, code string, ttl time.Duration) error
	GetFunc    func(ctx context.Context, phone string) (string, error)
	DeleteFunc func(ctx context.Context, phone string) error

	mu    sync.Mutex
	codes map[string]string
	TTLs  map[string]time.Duration
}

// NewMockOTPCache creates a new MockOTPCache
func NewMockOTPCache() *MockOTPCache {
	return &MockOTPCache{codes: make(map[string]string), TTLs: make(map[string]time.Duration)}
}

// Set stores code for phone
func (m *MockOTPCache) Set(ctx context.Context, phone, code string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, phone, code, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[phone] = code
	m.TTLs[phone] = ttl
	return nil
}

// Get returns the live code for phone
func (m *MockOTPCache) Get(ctx context.Context, phone string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, phone)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	code, ok := m.codes[phone]
	if !ok {
		return "", domain.ErrOTPExpired
	}
	return code, nil
}

// Delete drops the code for phone
func (m *MockOTPCache) Delete(ctx context.Context, phone string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, phone)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.codes, phone)
	return nil
}

// Compile-time interface compliance verification
var (
	_ domain.PhoneOTPRepository = (*MockPhoneOTPRepository)(nil)
	_ domain.OTPCache           = (*MockOTPCache)(nil)
)
