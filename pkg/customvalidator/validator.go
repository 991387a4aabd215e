package customvalidator

import (
	"regexp"

	"patrimonio-system/pkg/constants"

	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidations registra as regras de vocabulário fechado no
// validador compartilhado. Registro e importação usam as mesmas regras.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("tipo_equipamento", isTipoEquipamento); err != nil {
		return err
	}
	if err := v.RegisterValidation("departamento", isDepartamento); err != nil {
		return err
	}
	if err := v.RegisterValidation("status_equipamento", isEquipmentStatus); err != nil {
		return err
	}
	if err := v.RegisterValidation("status_devolucao", isLoanStatus); err != nil {
		return err
	}
	if err := v.RegisterValidation("patrimonio", isPatrimonio); err != nil {
		return err
	}
	return nil
}

var patrimonioRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9./-]{0,59}$`)

// IsPatrimonio valida a forma do número de patrimônio. Cadastro e
// importação aplicam a mesma regra.
func IsPatrimonio(s string) bool {
	return patrimonioRe.MatchString(s)
}

func isPatrimonio(fl validator.FieldLevel) bool {
	return IsPatrimonio(fl.Field().String())
}

func isTipoEquipamento(fl validator.FieldLevel) bool {
	return constants.IsValidTipoEquipamento(fl.Field().String())
}

func isDepartamento(fl validator.FieldLevel) bool {
	return constants.IsValidDepartamento(fl.Field().String())
}

func isEquipmentStatus(fl validator.FieldLevel) bool {
	return constants.IsValidEquipmentStatus(fl.Field().String())
}

func isLoanStatus(fl validator.FieldLevel) bool {
	return constants.IsValidLoanStatus(fl.Field().String())
}
