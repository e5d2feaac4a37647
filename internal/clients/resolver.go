package clients

import (
	"errors"

	"gorm.io/gorm"

	"github.com/tworkuz/twork-backend/internal/models"
)

// DetailKind tags the discriminated union between a client and its detail row.
type DetailKind int

const (
	DetailUnattached DetailKind = iota
	DetailIndividual
	DetailLegalEntity
)

// Detail is the application-level view of Client.ClientType + TypeRelatedInfo.
// Only this package dereferences the pair; everything else works with Detail.
type Detail struct {
	Kind DetailKind
	ID   uint
}

func detailOf(client *models.Client) Detail {
	if client.ClientType == nil || client.TypeRelatedInfo == nil {
		return Detail{Kind: DetailUnattached}
	}
	switch *client.ClientType {
	case models.ClientTypeIndividual:
		return Detail{Kind: DetailIndividual, ID: *client.TypeRelatedInfo}
	case models.ClientTypeLegalEntity:
		return Detail{Kind: DetailLegalEntity, ID: *client.TypeRelatedInfo}
	}
	return Detail{Kind: DetailUnattached}
}

// Resolver keeps both sides of the client/detail association consistent: the
// client's discriminator pair and the detail row's integer back-pointer.
type Resolver struct {
	DB *gorm.DB
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{DB: db}
}

// AttachIndividual links an already-persisted individual to a client. A zero
// clientID requests no attachment. A clientID that does not resolve degrades
// silently to unattached: the individual's back-pointer is reset to 0 and no
// client row is touched. Callers get no linkage-failure signal; the external
// contract depends on that.
func (r *Resolver) AttachIndividual(ind *models.Individual, clientID uint) error {
	if clientID == 0 {
		return nil
	}

	return r.DB.Transaction(func(tx *gorm.DB) error {
		var client models.Client
		err := tx.First(&client, "id = ?", clientID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ind.ClientID = 0
			return tx.Model(ind).Update("client", 0).Error
		}
		if err != nil {
			return err
		}

		ct := models.ClientTypeIndividual
		client.ClientType = &ct
		client.TypeRelatedInfo = &ind.ID
		if err := tx.Save(&client).Error; err != nil {
			return err
		}

		ind.ClientID = clientID
		return tx.Model(ind).Update("client", clientID).Error
	})
}

// AttachLegalEntity mirrors AttachIndividual for the other variant.
func (r *Resolver) AttachLegalEntity(le *models.LegalEntity, clientID uint) error {
	if clientID == 0 {
		return nil
	}

	return r.DB.Transaction(func(tx *gorm.DB) error {
		var client models.Client
		err := tx.First(&client, "id = ?", clientID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			le.ClientID = 0
			return tx.Model(le).Update("client", 0).Error
		}
		if err != nil {
			return err
		}

		ct := models.ClientTypeLegalEntity
		client.ClientType = &ct
		client.TypeRelatedInfo = &le.ID
		if err := tx.Save(&client).Error; err != nil {
			return err
		}

		le.ClientID = clientID
		return tx.Model(le).Update("client", clientID).Error
	})
}

// ResolveDetails loads the detail payload behind a client's discriminator with
// a single filter-by-id lookup. A dangling reference resolves to nil, not an
// error, so reads never fail on referential drift.
func (r *Resolver) ResolveDetails(client *models.Client) (interface{}, error) {
	detail := detailOf(client)
	switch detail.Kind {
	case DetailIndividual:
		var ind models.Individual
		if err := r.DB.First(&ind, "id = ?", detail.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return &ind, nil
	case DetailLegalEntity:
		var le models.LegalEntity
		if err := r.DB.First(&le, "id = ?", detail.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return &le, nil
	}
	return nil, nil
}

// DeleteIndividual resets any owning client to unattached before the row goes
// away, in one transaction, so the client side cannot be left dangling.
func (r *Resolver) DeleteIndividual(ind *models.Individual) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if ind.ClientID != 0 {
			err := tx.Model(&models.Client{}).
				Where("id = ? AND client_type = ? AND type_related_info = ?",
					ind.ClientID, models.ClientTypeIndividual, ind.ID).
				Updates(map[string]interface{}{"client_type": nil, "type_related_info": nil}).Error
			if err != nil {
				return err
			}
		}
		return tx.Delete(ind).Error
	})
}

func (r *Resolver) DeleteLegalEntity(le *models.LegalEntity) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if le.ClientID != 0 {
			err := tx.Model(&models.Client{}).
				Where("id = ? AND client_type = ? AND type_related_info = ?",
					le.ClientID, models.ClientTypeLegalEntity, le.ID).
				Updates(map[string]interface{}{"client_type": nil, "type_related_info": nil}).Error
			if err != nil {
				return err
			}
		}
		return tx.Delete(le).Error
	})
}

// DeleteClient removes a client together with its attached detail row.
func (r *Resolver) DeleteClient(client *models.Client) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		detail := detailOf(client)
		switch detail.Kind {
		case DetailIndividual:
			if err := tx.Where("id = ?", detail.ID).Delete(&models.Individual{}).Error; err != nil {
				return err
			}
		case DetailLegalEntity:
			if err := tx.Where("id = ?", detail.ID).Delete(&models.LegalEntity{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(client).Error
	})
}
