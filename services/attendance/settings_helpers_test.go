package attendance

import (
	"context"
	"sync"

	"github.com/moto-nrw/project-phoenix/email"
	configModels "github.com/moto-nrw/project-phoenix/models/config"
	"github.com/uptrace/bun"
)

// fakeConfigService is a minimal config.Service stand-in: only the
// Get*Value accessors Settings.Refresh calls are behaviorally meaningful,
// the rest satisfy the interface with zero-value responses, the same
// narrow-fake approach fake_store_test.go takes for the Store interface.
type fakeConfigService struct {
	floats  map[string]float64
	ints    map[string]int
	bools   map[string]bool
	strings map[string]string
}

func (f *fakeConfigService) WithTx(bun.Tx) interface{} { return f }

func (f *fakeConfigService) CreateSetting(context.Context, *configModels.Setting) error { return nil }
func (f *fakeConfigService) GetSettingByID(context.Context, int64) (*configModels.Setting, error) {
	return nil, nil
}
func (f *fakeConfigService) UpdateSetting(context.Context, *configModels.Setting) error { return nil }
func (f *fakeConfigService) DeleteSetting(context.Context, int64) error                 { return nil }
func (f *fakeConfigService) ListSettings(context.Context, map[string]interface{}) ([]*configModels.Setting, error) {
	return nil, nil
}

func (f *fakeConfigService) GetSettingByKey(context.Context, string) (*configModels.Setting, error) {
	return nil, nil
}
func (f *fakeConfigService) UpdateSettingValue(context.Context, string, string) error { return nil }

func (f *fakeConfigService) GetStringValue(_ context.Context, key, defaultValue string) (string, error) {
	if v, ok := f.strings[key]; ok {
		return v, nil
	}
	return defaultValue, nil
}

func (f *fakeConfigService) GetBoolValue(_ context.Context, key string, defaultValue bool) (bool, error) {
	if v, ok := f.bools[key]; ok {
		return v, nil
	}
	return defaultValue, nil
}

func (f *fakeConfigService) GetIntValue(_ context.Context, key string, defaultValue int) (int, error) {
	if v, ok := f.ints[key]; ok {
		return v, nil
	}
	return defaultValue, nil
}

func (f *fakeConfigService) GetFloatValue(_ context.Context, key string, defaultValue float64) (float64, error) {
	if v, ok := f.floats[key]; ok {
		return v, nil
	}
	return defaultValue, nil
}

func (f *fakeConfigService) GetSettingsByCategory(context.Context, string) ([]*configModels.Setting, error) {
	return nil, nil
}
func (f *fakeConfigService) GetSettingByKeyAndCategory(context.Context, string, string) (*configModels.Setting, error) {
	return nil, nil
}

func (f *fakeConfigService) ImportSettings(context.Context, []*configModels.Setting) ([]error, error) {
	return nil, nil
}
func (f *fakeConfigService) InitializeDefaultSettings(context.Context) error { return nil }

func (f *fakeConfigService) RequiresRestart(context.Context) (bool, error)        { return false, nil }
func (f *fakeConfigService) RequiresDatabaseReset(context.Context) (bool, error) { return false, nil }

// fakeMailer is a minimal email.Mailer for asserting the AbsenceNotifier
// dispatched a message, without depending on SMTP configuration.
type fakeMailer struct {
	mu   sync.Mutex
	sent []email.Message
}

func newFakeMailer() *fakeMailer { return &fakeMailer{} }

func (m *fakeMailer) Send(msg email.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) invoked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent) > 0
}

func newTestDispatcher(mailer email.Mailer) *email.Dispatcher {
	d := email.NewDispatcher(mailer)
	d.SetDefaults(1, nil)
	return d
}

func testFromAddress() email.Email {
	return email.NewEmail("Project Phoenix", "no-reply@example.com")
}
