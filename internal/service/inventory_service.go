package service

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/apperror"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/metrics"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/model"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/policy"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/repository"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/ws"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InventoryService interface {
	ListProducts(identity policy.Identity, activeOnly bool) ([]model.Product, error)
	GetProduct(identity policy.Identity, id uuid.UUID) (*model.Product, error)
	CreateProduct(identity policy.Identity, req *ProductRequest) (*model.Product, error)
	UpdateProduct(identity policy.Identity, id uuid.UUID, req *ProductRequest) (*model.Product, error)
	DeleteProduct(identity policy.Identity, id uuid.UUID) error

	PostOrder(identity policy.Identity, req *PostOrderRequest) (*model.Transaction, error)
	CancelOrder(identity policy.Identity, id uuid.UUID) error
	ListTransactions(identity policy.Identity, query TransactionQuery) (*TransactionPage, error)
	GetTransaction(identity policy.Identity, id uuid.UUID) (*model.Transaction, error)
}

type ProductRequest struct {
	Name        string `json:"name" validate:"required,notblank,max=255"`
	Price       int64  `json:"price" validate:"gte=0"`
	Stock       int    `json:"stock" validate:"gte=0"`
	Category    string `json:"category" validate:"max=100"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl" validate:"max=512"`
	IsActive    *bool  `json:"isActive"`
}

type OrderItemRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"uuid_required"`
	Quantity  int       `json:"quantity" validate:"gt=0,lte=100000"`
}

// MaxLineQuantity caps a single cart line, after repeated lines are merged.
const MaxLineQuantity = 100000

// PostOrderRequest is a cart. TotalAmount is optional; when sent it must match
// the total computed from current prices.
type PostOrderRequest struct {
	Items         []OrderItemRequest  `json:"items" validate:"required,min=1,dive"`
	TotalAmount   *int64              `json:"totalAmount" validate:"omitempty,gte=0"`
	PaymentMethod model.PaymentMethod `json:"paymentMethod" validate:"required"`
}

type TransactionQuery struct {
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
}

type TransactionPage struct {
	Data  []model.Transaction `json:"data"`
	Total int64               `json:"total"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
}

type inventoryService struct {
	productRepo     repository.ProductRepository
	transactionRepo repository.TransactionRepository
	auditRepo       repository.AuditRepository
	db              *gorm.DB
	wsHub           *ws.Hub
	metrics         *metrics.Metrics
	log             *logger.Logger
}

func NewInventoryService(pRepo repository.ProductRepository, tRepo repository.TransactionRepository, aRepo repository.AuditRepository, db *gorm.DB, hub *ws.Hub, m *metrics.Metrics, log *logger.Logger) InventoryService {
	return &inventoryService{
		productRepo:     pRepo,
		transactionRepo: tRepo,
		auditRepo:       aRepo,
		db:              db,
		wsHub:           hub,
		metrics:         m,
		log:             log,
	}
}

// ---------- Products ----------

func (s *inventoryService) ListProducts(identity policy.Identity, activeOnly bool) ([]model.Product, error) {
	if err := policy.Authorize(identity, policy.ProductView); err != nil {
		return nil, err
	}
	// cashiers only see what they can sell
	if !policy.Can(identity, policy.ProductUpdate) {
		activeOnly = true
	}
	products, err := s.productRepo.FindAll(activeOnly)
	if err != nil {
		return nil, apperror.Internal("failed to load products", err)
	}
	return products, nil
}

func (s *inventoryService) GetProduct(identity policy.Identity, id uuid.UUID) (*model.Product, error) {
	if err := policy.Authorize(identity, policy.ProductView); err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, apperror.Internal("failed to load product", err)
	}
	if !product.IsActive && !policy.Can(identity, policy.ProductUpdate) {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *inventoryService) CreateProduct(identity policy.Identity, req *ProductRequest) (*model.Product, error) {
	if err := policy.Authorize(identity, policy.ProductCreate); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:        req.Name,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	active := req.IsActive == nil || *req.IsActive
	product.IsActive = active
	product.CreatedBy = identity.UserID.String()
	product.UpdatedBy = identity.UserID.String()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.Create(tx, product); err != nil {
			return err
		}
		// Create skips the zero value and back-fills the column default.
		if !active {
			if err := tx.Model(product).Update("is_active", false).Error; err != nil {
				return err
			}
			product.IsActive = false
		}
		return writeAudit(tx, s.auditRepo, identity, auditEntry{
			Action:      model.AuditCreate,
			Table:       model.TableProduct,
			RecordID:    product.ID.String(),
			After:       product,
			Description: fmt.Sprintf("Created product '%s'", product.Name),
		})
	})
	if err != nil {
		s.log.Error().Err(err).Str("user_id", identity.UserID.String()).Msg("create product failed")
		return nil, internalOr(err, "failed to create product")
	}

	s.wsHub.Publish(ws.Event{
		Type:    ws.EventStockUpdate,
		Action:  "product_created",
		Data:    product,
		Actor:   identity.Username,
		Message: fmt.Sprintf("%s created product '%s'", identity.Username, product.Name),
	})
	return product, nil
}

// UpdateProduct overwrites the product with the request (last writer wins).
func (s *inventoryService) UpdateProduct(identity policy.Identity, id uuid.UUID, req *ProductRequest) (*model.Product, error) {
	if err := policy.Authorize(identity, policy.ProductUpdate); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	var updated model.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.productRepo.LockByID(tx, id)
		if err != nil {
			if isNotFound(err) {
				return ErrProductNotFound
			}
			return err
		}
		before := *existing

		existing.Name = req.Name
		existing.Price = req.Price
		existing.Stock = req.Stock
		existing.Category = req.Category
		existing.Description = req.Description
		existing.ImageURL = req.ImageURL
		if req.IsActive != nil {
			existing.IsActive = *req.IsActive
		}
		existing.UpdatedBy = identity.UserID.String()

		if err := s.productRepo.Save(tx, existing); err != nil {
			return err
		}
		updated = *existing

		return writeAudit(tx, s.auditRepo, identity, auditEntry{
			Action:      model.AuditUpdate,
			Table:       model.TableProduct,
			RecordID:    existing.ID.String(),
			Before:      before,
			After:       existing,
			Description: fmt.Sprintf("Updated product '%s'", existing.Name),
		})
	})
	if err != nil {
		return nil, internalOr(err, "failed to update product")
	}

	s.wsHub.Publish(ws.Event{
		Type:    ws.EventStockUpdate,
		Action:  "product_updated",
		Data:    updated,
		Actor:   identity.Username,
		Message: fmt.Sprintf("%s updated product '%s'", identity.Username, updated.Name),
	})
	return &updated, nil
}

// DeleteProduct removes a product that no order line references.
func (s *inventoryService) DeleteProduct(identity policy.Identity, id uuid.UUID) error {
	if err := policy.Authorize(identity, policy.ProductDelete); err != nil {
		return err
	}

	var deleted *model.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		product, err := s.productRepo.LockByID(tx, id)
		if err != nil {
			if isNotFound(err) {
				return ErrProductNotFound
			}
			return err
		}
		referenced, err := s.productRepo.IsReferenced(tx, id)
		if err != nil {
			return err
		}
		if referenced {
			return ErrProductReferenced
		}
		if err := s.productRepo.Delete(tx, id); err != nil {
			return err
		}
		deleted = product
		return writeAudit(tx, s.auditRepo, identity, auditEntry{
			Action:      model.AuditDelete,
			Table:       model.TableProduct,
			RecordID:    product.ID.String(),
			Before:      product,
			Description: fmt.Sprintf("Deleted product '%s'", product.Name),
		})
	})
	if err != nil {
		return internalOr(err, "failed to delete product")
	}

	s.wsHub.Publish(ws.Event{
		Type:    ws.EventStockUpdate,
		Action:  "product_deleted",
		Data:    map[string]interface{}{"id": deleted.ID},
		Actor:   identity.Username,
		Message: fmt.Sprintf("%s deleted product '%s'", identity.Username, deleted.Name),
	})
	return nil
}

// ---------- Orders ----------

type cartLine struct {
	productID uuid.UUID
	quantity  int
}

// mergeCart folds repeated product ids into one line, keeping first-seen order.
func mergeCart(items []OrderItemRequest) ([]cartLine, error) {
	index := make(map[uuid.UUID]int, len(items))
	lines := make([]cartLine, 0, len(items))
	for _, it := range items {
		if it.Quantity <= 0 || it.Quantity > MaxLineQuantity {
			return nil, ErrQuantityOutOfRange
		}
		if i, ok := index[it.ProductID]; ok {
			if lines[i].quantity > MaxLineQuantity-it.Quantity {
				return nil, ErrQuantityOutOfRange
			}
			lines[i].quantity += it.Quantity
			continue
		}
		index[it.ProductID] = len(lines)
		lines = append(lines, cartLine{productID: it.ProductID, quantity: it.Quantity})
	}
	return lines, nil
}

// PostOrder turns a cart into a completed transaction. Stock check, stock
// decrement, transaction, items and the audit entry commit together or not at all.
func (s *inventoryService) PostOrder(identity policy.Identity, req *PostOrderRequest) (*model.Transaction, error) {
	if err := policy.Authorize(identity, policy.TransactionPost); err != nil {
		return nil, err
	}
	if req == nil || len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	if !req.PaymentMethod.Valid() {
		return nil, ErrInvalidPayment
	}

	lines, err := mergeCart(req.Items)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(lines))
	for i, l := range lines {
		ids[i] = l.productID
	}

	var created model.Transaction
	products := make(map[uuid.UUID]model.Product, len(lines))

	err = s.db.Transaction(func(tx *gorm.DB) error {
		locked, err := s.productRepo.LockByIDs(tx, ids)
		if err != nil {
			if isNotFound(err) {
				return ErrProductNotFound
			}
			return err
		}
		for _, p := range locked {
			products[p.ID] = p
		}

		// Validate every line before writing anything.
		items := make([]model.TransactionItem, 0, len(lines))
		var total int64
		for _, l := range lines {
			p := products[l.productID]
			if !p.IsActive {
				return ErrProductNotFound
			}
			if p.Stock < l.quantity {
				return insufficientStock(p.Name, p.Stock, l.quantity)
			}
			if p.Price > 0 && int64(l.quantity) > math.MaxInt64/p.Price {
				return ErrAmountOverflow
			}
			subtotal := int64(l.quantity) * p.Price
			if total > math.MaxInt64-subtotal {
				return ErrAmountOverflow
			}
			total += subtotal
			items = append(items, model.TransactionItem{
				ProductID: p.ID,
				Quantity:  l.quantity,
				UnitPrice: p.Price,
				Subtotal:  subtotal,
			})
		}
		if req.TotalAmount != nil && *req.TotalAmount != total {
			return ErrTotalMismatch
		}

		created = model.Transaction{
			UserID:          identity.UserID,
			TotalAmount:     total,
			PaymentMethod:   req.PaymentMethod,
			Status:          model.StatusCompleted,
			TransactionDate: time.Now(),
			Items:           items,
		}
		created.CreatedBy = identity.UserID.String()
		created.UpdatedBy = identity.UserID.String()
		for i := range created.Items {
			created.Items[i].CreatedBy = created.CreatedBy
			created.Items[i].UpdatedBy = created.CreatedBy
		}

		if err := s.transactionRepo.Create(tx, &created); err != nil {
			return err
		}

		for _, l := range lines {
			ok, err := s.productRepo.DecrementStock(tx, l.productID, l.quantity, identity.UserID.String())
			if err != nil {
				return err
			}
			if !ok {
				p := products[l.productID]
				return insufficientStock(p.Name, p.Stock, l.quantity)
			}
		}

		return writeAudit(tx, s.auditRepo, identity, auditEntry{
			Action:      model.AuditCreate,
			Table:       model.TableTransaction,
			RecordID:    created.ID.String(),
			After:       created,
			Description: fmt.Sprintf("Created transaction with %d item(s), total %d, paid by %s", len(created.Items), created.TotalAmount, created.PaymentMethod),
		})
	})
	if err != nil {
		s.metrics.RecordOrderRejected(apperror.KindOf(err).String())
		if apperror.KindOf(err) == apperror.KindInternal {
			s.log.Error().Err(err).Str("user_id", identity.UserID.String()).Msg("post order failed")
		}
		return nil, internalOr(err, "failed to post order")
	}

	stock := make([]map[string]interface{}, 0, len(lines))
	for i := range created.Items {
		p := products[created.Items[i].ProductID]
		p.Stock -= created.Items[i].Quantity
		created.Items[i].Product = &p
		stock = append(stock, map[string]interface{}{"id": p.ID, "name": p.Name, "stock": p.Stock})
	}

	s.metrics.RecordOrderPosted(string(created.PaymentMethod), created.TotalAmount)
	s.log.Info().
		Str("user_id", identity.UserID.String()).
		Str("transaction_id", created.ID.String()).
		Int64("total", created.TotalAmount).
		Msg("order posted")
	s.wsHub.Publish(ws.Event{
		Type:    ws.EventOrder,
		Action:  "order_posted",
		Data:    map[string]interface{}{"transactionId": created.ID, "total": created.TotalAmount, "products": stock},
		Actor:   identity.Username,
		Message: fmt.Sprintf("%s posted an order of %d", identity.Username, created.TotalAmount),
	})

	return &created, nil
}

// CancelOrder restores stock for every line and removes the transaction and its items.
func (s *inventoryService) CancelOrder(identity policy.Identity, id uuid.UUID) error {
	if err := policy.Authorize(identity, policy.TransactionVoid); err != nil {
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		transaction, err := s.transactionRepo.LockByID(tx, id)
		if err != nil {
			if isNotFound(err) {
				return ErrTransactionNotFound
			}
			return err
		}

		// same lock order as PostOrder
		items := make([]model.TransactionItem, len(transaction.Items))
		copy(items, transaction.Items)
		sort.Slice(items, func(i, j int) bool {
			return bytes.Compare(items[i].ProductID[:], items[j].ProductID[:]) < 0
		})
		for _, it := range items {
			if err := s.productRepo.IncrementStock(tx, it.ProductID, it.Quantity, identity.UserID.String()); err != nil {
				return err
			}
		}

		if err := s.transactionRepo.Delete(tx, id); err != nil {
			return err
		}
		return writeAudit(tx, s.auditRepo, identity, auditEntry{
			Action:      model.AuditDelete,
			Table:       model.TableTransaction,
			RecordID:    transaction.ID.String(),
			Before:      transaction,
			Description: fmt.Sprintf("Cancelled transaction with %d item(s), total %d; stock restored", len(transaction.Items), transaction.TotalAmount),
		})
	})
	if err != nil {
		return internalOr(err, "failed to cancel order")
	}

	s.metrics.RecordOrderCancelled()
	s.wsHub.Publish(ws.Event{
		Type:    ws.EventOrder,
		Action:  "order_cancelled",
		Data:    map[string]interface{}{"transactionId": id},
		Actor:   identity.Username,
		Message: fmt.Sprintf("%s cancelled a transaction", identity.Username),
	})
	return nil
}

// ListTransactions returns a page of transactions. Callers without
// view-all rights only see their own.
func (s *inventoryService) ListTransactions(identity policy.Identity, query TransactionQuery) (*TransactionPage, error) {
	if err := policy.Authorize(identity, policy.TransactionView); err != nil {
		return nil, err
	}
	if query.StartDate != nil && query.EndDate != nil && !query.StartDate.Before(*query.EndDate) {
		return nil, ErrInvalidDateRange
	}

	filter := repository.TransactionFilter{
		StartDate: query.StartDate,
		EndDate:   query.EndDate,
		Page:      query.Page,
		Limit:     query.Limit,
	}
	if !policy.Can(identity, policy.TransactionAll) {
		own := identity.UserID
		filter.UserID = &own
	}

	data, total, err := s.transactionRepo.FindAll(filter)
	if err != nil {
		return nil, apperror.Internal("failed to load transactions", err)
	}
	page, limit := pageOf(query.Page, query.Limit)
	return &TransactionPage{Data: data, Total: total, Page: page, Limit: limit}, nil
}

func (s *inventoryService) GetTransaction(identity policy.Identity, id uuid.UUID) (*model.Transaction, error) {
	if err := policy.Authorize(identity, policy.TransactionView); err != nil {
		return nil, err
	}
	transaction, err := s.transactionRepo.FindByID(id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrTransactionNotFound
		}
		return nil, apperror.Internal("failed to load transaction", err)
	}
	if transaction.UserID != identity.UserID && !policy.Can(identity, policy.TransactionAll) {
		return nil, apperror.Forbidden("Forbidden: you can only view your own transactions")
	}
	return transaction, nil
}

// pageOf mirrors the repository's paging defaults for response metadata.
func pageOf(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = repository.DefaultPageSize
	}
	if limit > repository.MaxPageSize {
		limit = repository.MaxPageSize
	}
	return page, limit
}
