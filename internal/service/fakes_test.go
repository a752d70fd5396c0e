package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"studyroom-be/internal/entity"
	"studyroom-be/internal/pkg/logger"
	"studyroom-be/internal/repository/contract"
	"studyroom-be/internal/repository/specification"
	"studyroom-be/internal/repository/unitofwork"
	"studyroom-be/pkg/events"
	"studyroom-be/pkg/rag/prompt"

	"github.com/google/uuid"
)

// --- repositories ---

type fakeRoomRepo struct {
	contract.RoomRepository
	rooms   map[uuid.UUID]*entity.Room
	members map[uuid.UUID][]uuid.UUID
	err     error
}

func (r *fakeRoomRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Room, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, s := range specs {
		if byID, ok := s.(specification.ByID); ok {
			return r.rooms[byID.ID], nil
		}
	}
	return nil, errors.New("FindOne needs ByID")
}

func (r *fakeRoomRepo) Create(_ context.Context, room *entity.Room) error {
	if r.err != nil {
		return r.err
	}
	room.CreatedAt = time.Now()
	cp := *room
	r.rooms[room.Id] = &cp
	return nil
}

func (r *fakeRoomRepo) AddMember(_ context.Context, m *entity.RoomMember) error {
	if r.err != nil {
		return r.err
	}
	m.CreatedAt = time.Now()
	r.members[m.RoomId] = append(r.members[m.RoomId], m.UserId)
	return nil
}

func (r *fakeRoomRepo) IsMember(_ context.Context, roomId, userId uuid.UUID) (bool, error) {
	for _, m := range r.members[roomId] {
		if m == userId {
			return true, nil
		}
	}
	return false, nil
}

type fakeDocumentRepo struct {
	contract.DocumentRepository
	docs  []*entity.Document
	err   error
	specs []specification.Specification
}

func (r *fakeDocumentRepo) Create(_ context.Context, d *entity.Document) error {
	if r.err != nil {
		return r.err
	}
	d.CreatedAt = time.Now()
	r.docs = append(r.docs, d)
	return nil
}

func (r *fakeDocumentRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	r.specs = specs
	return r.docs, r.err
}

func (r *fakeDocumentRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return int64(len(r.docs)), r.err
}

type fakeAiConfigRepo struct {
	contract.IAiConfigRepository
	rows    map[string]*entity.AiConfiguration
	created int
	updated int
}

func (r *fakeAiConfigRepo) FindConfigurationByKey(_ context.Context, key string) (*entity.AiConfiguration, error) {
	row, ok := r.rows[key]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (r *fakeAiConfigRepo) CreateConfiguration(_ context.Context, cfg *entity.AiConfiguration) error {
	r.created++
	cfg.Id = uuid.New()
	cp := *cfg
	r.rows[cfg.Key] = &cp
	return nil
}

func (r *fakeAiConfigRepo) UpdateConfiguration(_ context.Context, cfg *entity.AiConfiguration) error {
	r.updated++
	cp := *cfg
	r.rows[cfg.Key] = &cp
	return nil
}

type fakeBuildLogRepo struct {
	mu      sync.Mutex
	logs    []*entity.ContextBuildLog
	err     error
	specs   []specification.Specification
	counted []specification.Specification
}

func (r *fakeBuildLogRepo) Create(_ context.Context, l *entity.ContextBuildLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.logs = append(r.logs, l)
	return nil
}

func (r *fakeBuildLogRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.ContextBuildLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.specs = specs
	return r.logs, r.err
}

func (r *fakeBuildLogRepo) Count(_ context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counted = specs
	return int64(len(r.logs)), r.err
}

func (r *fakeBuildLogRepo) saved() []*entity.ContextBuildLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.ContextBuildLog(nil), r.logs...)
}

// --- unit of work ---

type fakeUoW struct {
	rooms     *fakeRoomRepo
	documents *fakeDocumentRepo
	aiConfigs *fakeAiConfigRepo
	buildLogs *fakeBuildLogRepo
	commits   int
}

func (u *fakeUoW) Begin(context.Context) error { return nil }
func (u *fakeUoW) Commit() error               { u.commits++; return nil }
func (u *fakeUoW) Rollback() error             { return nil }

func (u *fakeUoW) RoomRepository() contract.RoomRepository          { return u.rooms }
func (u *fakeUoW) DocumentRepository() contract.DocumentRepository  { return u.documents }
func (u *fakeUoW) AiConfigRepository() contract.IAiConfigRepository { return u.aiConfigs }
func (u *fakeUoW) ContextBuildLogRepository() contract.ContextBuildLogRepository {
	return u.buildLogs
}

type fakeFactory struct{ uow *fakeUoW }

func (f *fakeFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork { return f.uow }

func newFakeUoW() *fakeUoW {
	return &fakeUoW{
		rooms:     &fakeRoomRepo{rooms: map[uuid.UUID]*entity.Room{}, members: map[uuid.UUID][]uuid.UUID{}},
		documents: &fakeDocumentRepo{},
		aiConfigs: &fakeAiConfigRepo{rows: map[string]*entity.AiConfiguration{}},
		buildLogs: &fakeBuildLogRepo{},
	}
}

// --- collaborators ---

type fakeEngine struct {
	text     string
	manifest prompt.Manifest
	err      error
	calls    int
	lastRoom string
}

func (e *fakeEngine) BuildContext(_ context.Context, roomID, _ string) (string, prompt.Manifest, error) {
	e.calls++
	e.lastRoom = roomID
	return e.text, e.manifest, e.err
}

type fakePublisher struct {
	mu        sync.Mutex
	manifests []prompt.Manifest
	err       error
}

func (p *fakePublisher) Publish(context.Context, []byte) error { return p.err }

func (p *fakePublisher) PublishContextBuilt(_ context.Context, _, _ uuid.UUID, m prompt.Manifest) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.manifests = append(p.manifests, m)
	return p.err
}

type fakeEventPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *fakeEventPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *fakeEventPublisher) published() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

type fakeRecorder struct {
	mu        sync.Mutex
	manifests []prompt.Manifest
}

func (r *fakeRecorder) ObserveBuild(m prompt.Manifest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.manifests = append(r.manifests, m)
}

func (r *fakeRecorder) observed() []prompt.Manifest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]prompt.Manifest(nil), r.manifests...)
}

// recordingLogger keeps entries in memory.
type recordingLogger struct {
	mu      sync.Mutex
	entries []logger.LogEntry
}

func (l *recordingLogger) add(level, module, msg string, details map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logger.LogEntry{Level: level, Module: module, Message: msg, Details: details})
}

func (l *recordingLogger) Debug(m, msg string, d map[string]interface{}) { l.add("DEBUG", m, msg, d) }
func (l *recordingLogger) Info(m, msg string, d map[string]interface{})  { l.add("INFO", m, msg, d) }
func (l *recordingLogger) Warn(m, msg string, d map[string]interface{})  { l.add("WARN", m, msg, d) }
func (l *recordingLogger) Error(m, msg string, d map[string]interface{}) { l.add("ERROR", m, msg, d) }
func (l *recordingLogger) Sync() error                                   { return nil }

func (l *recordingLogger) GetLogs(filter logger.LogFilter) ([]logger.LogEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := []logger.LogEntry{}
	for _, e := range l.entries {
		if filter.Module != "" && e.Module != filter.Module {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (l *recordingLogger) levels() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.Level
	}
	return out
}
