package repository

import (
	"errors"

	repo "shopapi/internal/repository"

	"gorm.io/gorm"
)

// gormのエラーをrepositoryのエラーに寄せる
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repo.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repo.ErrDuplicate
	default:
		return err
	}
}

func rowsAffectedOrNotFound(res *gorm.DB) error {
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
