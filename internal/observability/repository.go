package observability

import (
	"context"
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/models"
	"github.com/rogerio-castellano/product-catalog/internal/repo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const productsTable = "products"

// InstrumentedProductRepository decorates a ProductRepository with metrics and spans.
type InstrumentedProductRepository struct {
	next      repo.ProductRepository
	collector *Collector
	tracer    trace.Tracer
}

func NewInstrumentedProductRepository(next repo.ProductRepository, c *Collector, tp trace.TracerProvider) *InstrumentedProductRepository {
	return &InstrumentedProductRepository{
		next:      next,
		collector: c,
		tracer:    tp.Tracer("product-catalog/repo"),
	}
}

func (r *InstrumentedProductRepository) observe(ctx context.Context, op string, fn func(context.Context) error) error {
	ctx, span := r.tracer.Start(ctx, "products."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.operation", op),
			attribute.String("db.sql.table", productsTable),
		),
	)
	defer span.End()

	start := time.Now()
	err := fn(ctx)

	status := "success"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	r.collector.DBOperations.WithLabelValues(op, productsTable, status).Inc()
	r.collector.DBDuration.WithLabelValues(op, productsTable).Observe(time.Since(start).Seconds())
	return err
}

func (r *InstrumentedProductRepository) Create(ctx context.Context, p models.Product) (models.Product, error) {
	var created models.Product
	err := r.observe(ctx, "create", func(ctx context.Context) error {
		var err error
		created, err = r.next.Create(ctx, p)
		return err
	})
	if err == nil {
		r.collector.ProductsCreated.Inc()
	}
	return created, err
}

func (r *InstrumentedProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.observe(ctx, "list", func(ctx context.Context) error {
		var err error
		products, err = r.next.GetAll(ctx)
		return err
	})
	return products, err
}

func (r *InstrumentedProductRepository) GetByID(ctx context.Context, id int) (models.Product, error) {
	var product models.Product
	err := r.observe(ctx, "get", func(ctx context.Context) error {
		var err error
		product, err = r.next.GetByID(ctx, id)
		return err
	})
	return product, err
}

func (r *InstrumentedProductRepository) EnsureSchema(ctx context.Context) error {
	return r.observe(ctx, "ensure_schema", r.next.EnsureSchema)
}
