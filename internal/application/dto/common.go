package dto

// ErrorResponse cuerpo de error de la API. Code es estable; Message es para personas.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// OutcomePageSize tamaño de página del registro de pagos cuando no se indica limit.
const OutcomePageSize = 20

// OutcomePageQuery ventana pedida en ?limit=&offset=. limit=0 usa OutcomePageSize.
type OutcomePageQuery struct {
	Limit  int `query:"limit" validate:"min=0,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// Size devuelve el limit efectivo.
func (q OutcomePageQuery) Size() int {
	if q.Limit == 0 {
		return OutcomePageSize
	}
	return q.Limit
}

// Window acota la ventana a total elementos y devuelve [from, to).
func (q OutcomePageQuery) Window(total int) (from, to int) {
	from = min(q.Offset, total)
	return from, min(from+q.Size(), total)
}

// OutcomePage ventana devuelta junto con el total del registro.
type OutcomePage struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}
