package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"patrimonio-system/internal/dto"
	"patrimonio-system/internal/entities"
	"patrimonio-system/pkg/constants"
	"patrimonio-system/pkg/contextkeys"
	apperrors "patrimonio-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// fakeDB mantém o estado compartilhado dos repositórios em memória. O
// fakeTxManager segura o mutex durante a transação inteira, reproduzindo a
// serialização que as linhas trancadas garantem no banco real; por isso os
// métodos *InTx e Lock* não trancam de novo.
type fakeDB struct {
	mu            sync.Mutex
	equipments    map[string]*entities.Equipment
	loans         map[string]*entities.Loan
	history       []entities.HistoryEntry
	notifications map[string]*entities.Notification
	seq           uint64
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		equipments:    make(map[string]*entities.Equipment),
		loans:         make(map[string]*entities.Loan),
		notifications: make(map[string]*entities.Notification),
	}
}

type fakeTxManager struct {
	db *fakeDB
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	return fn(nil)
}

type fakeEquipmentRepo struct {
	db *fakeDB

	// patrimônios na ordem em que as linhas foram trancadas.
	lockedOrder []string
}

func (r *fakeEquipmentRepo) List(ctx context.Context, filter dto.EquipmentFilter) ([]entities.Equipment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var out []entities.Equipment
	for _, e := range r.db.equipments {
		if filter.Tipo != "" && e.TipoEquipamento != filter.Tipo {
			continue
		}
		if filter.Departamento != "" && e.DepartamentoAtual != filter.Departamento {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if filter.Search != "" {
			s := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(e.NumeroPatrimonio), s) &&
				!strings.Contains(strings.ToLower(e.Marca), s) &&
				!strings.Contains(strings.ToLower(e.Modelo), s) {
				continue
			}
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NumeroPatrimonio < out[j].NumeroPatrimonio })
	return out, nil
}

func (r *fakeEquipmentRepo) ListAvailable(ctx context.Context) ([]entities.Equipment, error) {
	return r.List(ctx, dto.EquipmentFilter{Status: constants.StatusDisponivel})
}

func (r *fakeEquipmentRepo) FindByID(ctx context.Context, id string) (*entities.Equipment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.findByID(id)
}

func (r *fakeEquipmentRepo) findByID(id string) (*entities.Equipment, error) {
	e, ok := r.db.equipments[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	clone := *e
	return &clone, nil
}

func (r *fakeEquipmentRepo) FindByPatrimonio(ctx context.Context, patrimonio string) (*entities.Equipment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.findByPatrimonio(patrimonio)
}

func (r *fakeEquipmentRepo) findByPatrimonio(patrimonio string) (*entities.Equipment, error) {
	for _, e := range r.db.equipments {
		if e.NumeroPatrimonio == patrimonio {
			clone := *e
			return &clone, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeEquipmentRepo) ExistsByPatrimonio(ctx context.Context, patrimonio string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	_, err := r.findByPatrimonio(patrimonio)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (r *fakeEquipmentRepo) LockByID(ctx context.Context, tx pgx.Tx, id string) (*entities.Equipment, error) {
	return r.findByID(id)
}

func (r *fakeEquipmentRepo) LockByPatrimonio(ctx context.Context, tx pgx.Tx, patrimonio string) (*entities.Equipment, error) {
	r.lockedOrder = append(r.lockedOrder, patrimonio)
	return r.findByPatrimonio(patrimonio)
}

func (r *fakeEquipmentRepo) CreateInTx(ctx context.Context, tx pgx.Tx, e *entities.Equipment) error {
	if _, err := r.findByPatrimonio(e.NumeroPatrimonio); err == nil {
		return apperrors.Conflictf("número de patrimônio %s já existe", e.NumeroPatrimonio)
	}
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now
	clone := *e
	r.db.equipments[e.ID] = &clone
	return nil
}

func (r *fakeEquipmentRepo) UpdateInTx(ctx context.Context, tx pgx.Tx, e *entities.Equipment) error {
	existing, ok := r.db.equipments[e.ID]
	if !ok {
		return apperrors.ErrNotFound
	}
	existing.NumeroSerie = e.NumeroSerie
	existing.Marca = e.Marca
	existing.Modelo = e.Modelo
	existing.TipoEquipamento = e.TipoEquipamento
	existing.DepartamentoAtual = e.DepartamentoAtual
	existing.ResponsavelAtual = e.ResponsavelAtual
	existing.Status = e.Status
	existing.UpdatedAt = time.Now()
	return nil
}

func (r *fakeEquipmentRepo) UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id string, status string) error {
	e, ok := r.db.equipments[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	e.Status = status
	e.UpdatedAt = time.Now()
	return nil
}

func (r *fakeEquipmentRepo) SetTermoRefInTx(ctx context.Context, tx pgx.Tx, id string, ref string) error {
	e, ok := r.db.equipments[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	e.TermoDocumentRef = &ref
	e.UpdatedAt = time.Now()
	return nil
}

func (r *fakeEquipmentRepo) DeleteInTx(ctx context.Context, tx pgx.Tx, id string) error {
	if _, ok := r.db.equipments[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.db.equipments, id)
	return nil
}

type fakeLoanRepo struct {
	db *fakeDB
}

func (r *fakeLoanRepo) CreateInTx(ctx context.Context, tx pgx.Tx, l *entities.Loan) error {
	l.CreatedAt = time.Now()
	clone := *l
	clone.Equipments = append([]string(nil), l.Equipments...)
	r.db.loans[l.ID] = &clone
	return nil
}

func (r *fakeLoanRepo) FindByID(ctx context.Context, id string) (*entities.Loan, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.findByID(id)
}

func (r *fakeLoanRepo) findByID(id string) (*entities.Loan, error) {
	l, ok := r.db.loans[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	clone := *l
	clone.Equipments = append([]string(nil), l.Equipments...)
	return &clone, nil
}

func (r *fakeLoanRepo) LockByID(ctx context.Context, tx pgx.Tx, id string) (*entities.Loan, error) {
	return r.findByID(id)
}

func (r *fakeLoanRepo) List(ctx context.Context, filter dto.LoanFilter, now time.Time) ([]entities.Loan, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var out []entities.Loan
	for _, l := range r.db.loans {
		if filter.StatusDevolucao != "" && l.StatusDevolucao(now) != filter.StatusDevolucao {
			continue
		}
		if filter.Search != "" {
			s := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(l.NomeSolicitante), s) &&
				!strings.Contains(strings.ToLower(l.DepartamentoSolicitante), s) {
				continue
			}
		}
		clone := *l
		clone.Equipments = append([]string(nil), l.Equipments...)
		out = append(out, clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeLoanRepo) SetReturnedInTx(ctx context.Context, tx pgx.Tx, id string, returnedAt time.Time) error {
	l, ok := r.db.loans[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	t := returnedAt
	l.DataDevolucaoReal = &t
	return nil
}

func (r *fakeLoanRepo) CountOpenByPatrimonioInTx(ctx context.Context, tx pgx.Tx, patrimonio string) (int64, error) {
	var count int64
	for _, l := range r.db.loans {
		if !l.Open() {
			continue
		}
		for _, p := range l.Equipments {
			if p == patrimonio {
				count++
			}
		}
	}
	return count, nil
}

type fakeHistoryRepo struct {
	db *fakeDB
}

func (r *fakeHistoryRepo) CreateInTx(ctx context.Context, tx pgx.Tx, h *entities.HistoryEntry) error {
	r.db.seq++
	h.Seq = r.db.seq
	h.Timestamp = time.Now()
	r.db.history = append(r.db.history, *h)
	return nil
}

func (r *fakeHistoryRepo) FindByEquipmentID(ctx context.Context, equipmentID string) ([]entities.HistoryEntry, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var out []entities.HistoryEntry
	for _, h := range r.db.history {
		if h.EquipmentID == equipmentID {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

type fakeNotificationRepo struct {
	db *fakeDB
}

func (r *fakeNotificationRepo) CreateInTx(ctx context.Context, tx pgx.Tx, n *entities.Notification) error {
	n.CreatedAt = time.Now()
	clone := *n
	r.db.notifications[n.ID] = &clone
	return nil
}

func (r *fakeNotificationRepo) List(ctx context.Context, unreadOnly bool) ([]entities.Notification, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var out []entities.Notification
	for _, n := range r.db.notifications {
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	n, ok := r.db.notifications[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	n.Read = true
	return nil
}

// testEnv liga os serviços aos repositórios falsos.
type testEnv struct {
	db               *fakeDB
	equipmentRepo    *fakeEquipmentRepo
	loanRepo         *fakeLoanRepo
	historyRepo      *fakeHistoryRepo
	notificationRepo *fakeNotificationRepo
	cacheRepo        *fakeCacheRepo
	equipmentService *EquipmentService
	loanService      *LoanService
}

func newTestEnv() *testEnv {
	db := newFakeDB()
	env := &testEnv{
		db:               db,
		equipmentRepo:    &fakeEquipmentRepo{db: db},
		loanRepo:         &fakeLoanRepo{db: db},
		historyRepo:      &fakeHistoryRepo{db: db},
		notificationRepo: &fakeNotificationRepo{db: db},
		cacheRepo:        newFakeCacheRepo(),
	}
	tx := &fakeTxManager{db: db}
	logger := zap.NewNop()
	env.equipmentService = NewEquipmentService(env.equipmentRepo, env.loanRepo, env.historyRepo, tx, env.cacheRepo, logger)
	env.loanService = NewLoanService(env.loanRepo, env.equipmentRepo, env.historyRepo, env.notificationRepo, tx, env.cacheRepo, logger)
	return env
}

func authedCtx(user string) context.Context {
	return context.WithValue(context.Background(), contextkeys.ActingUserKey, user)
}
