package observability

import (
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const gormSpanKey = "observability:span"

// GormTracing is a gorm plugin that wraps every statement in a client span
// parented on the statement's context.
type GormTracing struct{}

// Name implements gorm.Plugin.
func (GormTracing) Name() string { return "observability:tracing" }

// Initialize implements gorm.Plugin.
func (GormTracing) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register("observability:before_create", startStatementSpan("insert")),
		cb.Create().After("gorm:create").Register("observability:after_create", endStatementSpan),
		cb.Query().Before("gorm:query").Register("observability:before_query", startStatementSpan("select")),
		cb.Query().After("gorm:query").Register("observability:after_query", endStatementSpan),
		cb.Update().Before("gorm:update").Register("observability:before_update", startStatementSpan("update")),
		cb.Update().After("gorm:update").Register("observability:after_update", endStatementSpan),
		cb.Delete().Before("gorm:delete").Register("observability:before_delete", startStatementSpan("delete")),
		cb.Delete().After("gorm:delete").Register("observability:after_delete", endStatementSpan),
		cb.Row().Before("gorm:row").Register("observability:before_row", startStatementSpan("row")),
		cb.Row().After("gorm:row").Register("observability:after_row", endStatementSpan),
		cb.Raw().Before("gorm:raw").Register("observability:before_raw", startStatementSpan("raw")),
		cb.Raw().After("gorm:raw").Register("observability:after_raw", endStatementSpan),
	)
}

func startStatementSpan(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		if db.Statement == nil || db.Statement.Context == nil {
			return
		}
		ctx, span := Tracer.Start(db.Statement.Context, "gorm."+operation,
			trace.WithSpanKind(trace.SpanKindClient),
		)
		span.SetAttributes(
			attribute.String("db.system", db.Dialector.Name()),
			attribute.String("db.operation", operation),
		)
		db.Statement.Context = ctx
		db.InstanceSet(gormSpanKey, span)
	}
}

func endStatementSpan(db *gorm.DB) {
	v, ok := db.InstanceGet(gormSpanKey)
	if !ok {
		return
	}
	span, ok := v.(trace.Span)
	if !ok {
		return
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	span.SetAttributes(attribute.Int64("db.rows_affected", db.RowsAffected))
	// A miss is an answer, not a failure.
	if err := db.Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
