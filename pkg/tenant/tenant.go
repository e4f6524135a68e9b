// Package tenant transporta la identidad del tenant en el context.Context.
// La identidad llega resuelta desde afuera (middleware); los componentes del
// núcleo nunca construyen direcciones de almacenamiento por su cuenta.
package tenant

import "context"

type ctxKey struct{}

// WithID retorna un contexto con el tenant inyectado.
func WithID(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, tenantID)
}

// IDFromContext extrae el tenant del contexto; "" si no hay.
func IDFromContext(ctx context.Context) string {
	v := ctx.Value(ctxKey{})
	s, _ := v.(string)
	return s
}
