package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	customerdomain "github.com/pedalworks/rentora/internal/customer/domain"
	"github.com/pedalworks/rentora/internal/orgcontext"
	"github.com/pedalworks/rentora/pkg/db"
	"github.com/pedalworks/rentora/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

func New(p Params) customerdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("customer.service"),
		genID: p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req customerdomain.CreateRequest) (*customerdomain.Customer, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, customerdomain.ErrInvalidOrganization
	}

	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if firstName == "" || lastName == "" {
		return nil, customerdomain.ErrInvalidName
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !emailPattern.MatchString(email) {
		return nil, customerdomain.ErrInvalidEmail
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&customerdomain.Customer{}).
		Where("org_id = ? AND email = ?", orgID, email).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, customerdomain.ErrEmailExists
	}

	now := time.Now().UTC()
	customer := &customerdomain.Customer{
		ID:        s.genID.Generate(),
		OrgID:     orgID,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Phone:     strings.TrimSpace(req.Phone),
		Address:   strings.TrimSpace(req.Address),
		City:      strings.TrimSpace(req.City),
		Notes:     strings.TrimSpace(req.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.db.WithContext(ctx).Create(customer).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, customerdomain.ErrEmailExists
		}
		return nil, err
	}

	s.log.Info("customer created",
		zap.Int64("org_id", int64(orgID)),
		zap.String("customer_id", customer.ID.String()),
	)
	return customer, nil
}

func (s *Service) Update(ctx context.Context, id string, req customerdomain.UpdateRequest) (*customerdomain.Customer, error) {
	customer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		name := strings.TrimSpace(*req.FirstName)
		if name == "" {
			return nil, customerdomain.ErrInvalidName
		}
		customer.FirstName = name
	}
	if req.LastName != nil {
		name := strings.TrimSpace(*req.LastName)
		if name == "" {
			return nil, customerdomain.ErrInvalidName
		}
		customer.LastName = name
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if !emailPattern.MatchString(email) {
			return nil, customerdomain.ErrInvalidEmail
		}
		if email != customer.Email {
			var count int64
			if err := s.db.WithContext(ctx).Model(&customerdomain.Customer{}).
				Where("org_id = ? AND email = ? AND id <> ?", customer.OrgID, email, customer.ID).
				Count(&count).Error; err != nil {
				return nil, err
			}
			if count > 0 {
				return nil, customerdomain.ErrEmailExists
			}
		}
		customer.Email = email
	}
	if req.Phone != nil {
		customer.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		customer.Address = strings.TrimSpace(*req.Address)
	}
	if req.City != nil {
		customer.City = strings.TrimSpace(*req.City)
	}
	if req.Notes != nil {
		customer.Notes = strings.TrimSpace(*req.Notes)
	}
	customer.UpdatedAt = time.Now().UTC()

	if err := s.db.WithContext(ctx).Save(customer).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, customerdomain.ErrEmailExists
		}
		return nil, err
	}
	return customer, nil
}

func (s *Service) Get(ctx context.Context, id string) (*customerdomain.Customer, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, customerdomain.ErrInvalidOrganization
	}

	customerID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, customerdomain.ErrInvalidID
	}

	var customer customerdomain.Customer
	err = s.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, customerID).
		First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, customerdomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (s *Service) List(ctx context.Context, req customerdomain.ListRequest) (*customerdomain.ListResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, customerdomain.ErrInvalidOrganization
	}

	limit := req.PageSize
	if limit < 1 {
		limit = 10
	}

	query := s.db.WithContext(ctx).Where("org_id = ?", orgID)
	if search := strings.TrimSpace(req.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	if req.PageToken != "" {
		cursor, err := pagination.DecodeCursor(req.PageToken)
		if err != nil {
			return nil, customerdomain.ErrInvalidPageToken
		}
		query = query.Where("id > ?", cursor.ID)
	}

	var customers []*customerdomain.Customer
	if err := query.Order("id ASC").Limit(limit + 1).Find(&customers).Error; err != nil {
		return nil, err
	}

	pageInfo, customers := pagination.BuildCursorPageInfo(customers, limit, func(c *customerdomain.Customer) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{ID: c.ID.String()})
		return token
	})

	out := make([]customerdomain.Customer, 0, len(customers))
	for _, c := range customers {
		out = append(out, *c)
	}
	return &customerdomain.ListResponse{Customers: out, PageInfo: *pageInfo}, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	customer, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(customer).Error
}
