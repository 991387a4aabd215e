package services

import (
	"testing"
	"time"

	"patrimonio-system/internal/dto"
	"patrimonio-system/pkg/constants"
	apperrors "patrimonio-system/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseEquipmentDTO(patrimonio string) dto.CreateEquipmentDTO {
	return dto.CreateEquipmentDTO{
		NumeroPatrimonio:  patrimonio,
		NumeroSerie:       "SN-" + patrimonio,
		Marca:             "Dell",
		Modelo:            "Latitude 5420",
		TipoEquipamento:   "Notebook",
		DepartamentoAtual: "SEINTEC",
	}
}

func TestEquipmentCreateDefaultsToDisponivel(t *testing.T) {
	env := newTestEnv()
	ctx := authedCtx("Maria Souza")

	e, err := env.equipmentService.Create(ctx, baseEquipmentDTO("PAT-001"))
	require.NoError(t, err)
	assert.Equal(t, constants.StatusDisponivel, e.Status)
	assert.NotEmpty(t, e.ID)

	trail, err := env.equipmentService.History(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, trail, 1)
	assert.Equal(t, constants.ActionCreated, trail[0].Action)
	assert.Equal(t, "Maria Souza", trail[0].User)
}

func TestEquipmentCreateRejectsEmprestado(t *testing.T) {
	env := newTestEnv()
	ctx := authedCtx("Maria Souza")

	d := baseEquipmentDTO("PAT-001")
	d.Status = constants.StatusEmprestado

	_, err := env.equipmentService.Create(ctx, d)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestEquipmentCreateDuplicatePatrimonio(t *testing.T) {
	env := newTestEnv()
	ctx := authedCtx("Maria Souza")

	_, err := env.equipmentService.Create(ctx, baseEquipmentDTO("PAT-001"))
	require.NoError(t, err)

	_, err = env.equipmentService.Create(ctx, baseEquipmentDTO("PAT-001"))
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestEquipmentCreateRequiresActingUser(t *testing.T) {
	env := newTestEnv()

	_, err := env.equipmentService.Create(authedCtx(""), baseEquipmentDTO("PAT-001"))
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func updateFrom(d dto.CreateEquipmentDTO, status string) dto.UpdateEquipmentDTO {
	return dto.UpdateEquipmentDTO{
		NumeroSerie:       d.NumeroSerie,
		Marca:             d.Marca,
		Modelo:            d.Modelo,
		TipoEquipamento:   d.TipoEquipamento,
		DepartamentoAtual: d.DepartamentoAtual,
		ResponsavelAtual:  d.ResponsavelAtual,
		Status:            status,
	}
}

func TestEquipmentUpdatePatrimonioImmutable(t *testing.T) {
	env := newTestEnv()
	ctx := authedCtx("Maria Souza")

	d := baseEquipmentDTO("PAT-001")
	e, err := env.equipmentService.Create(ctx, d)
	require.NoError(t, err)

	upd := updateFrom(d, constants.StatusDisponivel)
	other := "PAT-999"
	upd.NumeroPatrimonio = &other

	_, err = env.equipmentService.Update(ctx, e.ID, upd)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	// Repetir o mesmo valor não é mutação.
	same := "PAT-001"
	upd.NumeroPatrimonio = &same
	_, err = env.equipmentService.Update(ctx, e.ID, upd)
	assert.NoError(t, err)
}

func TestEquipmentUpdateRejectsManualEmprestado(t *testing.T) {
	env := newTestEnv()
	ctx := authedCtx("Maria Souza")

	d := baseEquipmentDTO("PAT-001")
	e, err := env.equipmentService.Create(ctx, d)
	require.NoError(t, err)

	_, err = env.equipmentService.Update(ctx, e.ID, updateFrom(d, constants.StatusEmprestado))
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestEquipmentUpdateWhileLoaned(t *testing.T) {
	env := newTestEnv()
	ctx := authedCtx("Maria Souza")

	d := baseEquipmentDTO("PAT-001")
	e, err := env.equipmentService.Create(ctx, d)
	require.NoError(t, err)

	_, err = env.loanService.Create(ctx, dto.CreateLoanDTO{
		NomeSolicitante:         "Carlos Lima",
		DepartamentoSolicitante: "RH",
		DataEmprestimo:          time.Now(),
		DataPrevistaDevolucao:   time.Now().Add(48 * time.Hour),
		Equipments:              []string{"PAT-001"},
	})
	require.NoError(t, err)

	// Emprestado não volta para Disponível por edição direta.
	_, err = env.equipmentService.Update(ctx, e.ID, updateFrom(d, constants.StatusDisponivel))
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	// Mas pode ser baixado ou ir para manutenção no meio do empréstimo.
	updated, err := env.equipmentService.Update(ctx, e.ID, updateFrom(d, constants.StatusManutencao))
	require.NoError(t, err)
	assert.Equal(t, constants.StatusManutencao, updated.Status)
}

func TestEquipmentUpdateRecordsDiff(t *testing.T) {
	env := newTestEnv()
	ctx := authedCtx("Maria Souza")

	d := baseEquipmentDTO("PAT-001")
	e, err := env.equipmentService.Create(ctx, d)
	require.NoError(t, err)

	upd := updateFrom(d, constants.StatusDisponivel)
	upd.Marca = "Lenovo"
	_, err = env.equipmentService.Update(ctx, e.ID, upd)
	require.NoError(t, err)

	trail, err := env.equipmentService.History(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, trail, 2)
	assert.Equal(t, constants.ActionUpdated, trail[1].Action)
	assert.Contains(t, trail[1].Description, `marca: "Dell" -> "Lenovo"`)
}

func TestEquipmentDeleteBlockedByOpenLoan(t *testing.T) {
	env := newTestEnv()
	ctx := authedCtx("Maria Souza")

	e, err := env.equipmentService.Create(ctx, baseEquipmentDTO("PAT-001"))
	require.NoError(t, err)

	loan, err := env.loanService.Create(ctx, dto.CreateLoanDTO{
		NomeSolicitante:         "Carlos Lima",
		DepartamentoSolicitante: "RH",
		DataEmprestimo:          time.Now(),
		DataPrevistaDevolucao:   time.Now().Add(48 * time.Hour),
		Equipments:              []string{"PAT-001"},
	})
	require.NoError(t, err)

	err = env.equipmentService.Delete(ctx, e.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = env.loanService.Return(ctx, loan.ID, dto.ReturnLoanDTO{DataDevolucaoReal: time.Now()})
	require.NoError(t, err)

	require.NoError(t, env.equipmentService.Delete(ctx, e.ID))
	_, err = env.equipmentService.Find(ctx, e.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestEquipmentDeleteKeepsHistory(t *testing.T) {
	env := newTestEnv()
	ctx := authedCtx("Maria Souza")

	e, err := env.equipmentService.Create(ctx, baseEquipmentDTO("PAT-001"))
	require.NoError(t, err)
	require.NoError(t, env.equipmentService.Delete(ctx, e.ID))

	// A trilha sobrevive à baixa; só a consulta via serviço passa a dar 404.
	trail, err := env.historyRepo.FindByEquipmentID(ctx, e.ID)
	require.NoError(t, err)
	assert.Len(t, trail, 1)
}

func TestEquipmentAttachTermo(t *testing.T) {
	env := newTestEnv()
	ctx := authedCtx("Maria Souza")

	e, err := env.equipmentService.Create(ctx, baseEquipmentDTO("PAT-001"))
	require.NoError(t, err)

	require.NoError(t, env.equipmentService.AttachTermo(ctx, e.ID, "termos/2026/08/31/abc.pdf"))

	found, err := env.equipmentService.Find(ctx, e.ID)
	require.NoError(t, err)
	require.NotNil(t, found.TermoDocumentRef)
	assert.Equal(t, "termos/2026/08/31/abc.pdf", *found.TermoDocumentRef)

	trail, err := env.equipmentService.History(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, trail, 2)
	assert.Equal(t, constants.ActionTermoUploaded, trail[1].Action)

	err = env.equipmentService.AttachTermo(ctx, e.ID, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestEquipmentHistoryUnknownEquipment(t *testing.T) {
	env := newTestEnv()

	_, err := env.equipmentService.History(authedCtx("Maria Souza"), "nao-existe")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestEquipmentHistoryOrder(t *testing.T) {
	env := newTestEnv()
	ctx := authedCtx("Maria Souza")

	d := baseEquipmentDTO("PAT-001")
	e, err := env.equipmentService.Create(ctx, d)
	require.NoError(t, err)

	upd := updateFrom(d, constants.StatusDisponivel)
	upd.Modelo = "Latitude 7430"
	_, err = env.equipmentService.Update(ctx, e.ID, upd)
	require.NoError(t, err)

	loan, err := env.loanService.Create(ctx, dto.CreateLoanDTO{
		NomeSolicitante:         "Carlos Lima",
		DepartamentoSolicitante: "RH",
		DataEmprestimo:          time.Now(),
		DataPrevistaDevolucao:   time.Now().Add(24 * time.Hour),
		Equipments:              []string{"PAT-001"},
	})
	require.NoError(t, err)

	_, err = env.loanService.Return(ctx, loan.ID, dto.ReturnLoanDTO{DataDevolucaoReal: time.Now()})
	require.NoError(t, err)

	trail, err := env.equipmentService.History(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, trail, 4)

	actions := []string{trail[0].Action, trail[1].Action, trail[2].Action, trail[3].Action}
	assert.Equal(t, []string{
		constants.ActionCreated, constants.ActionUpdated,
		constants.ActionLoaned, constants.ActionReturned,
	}, actions)
}
