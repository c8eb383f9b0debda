// Package notice carries user-facing notifications to the rendered views.
// Notices are plain values: a view gets the notice it should show as part
// of its data, and a redirect carries one as a short code in ?aviso=.
package notice

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

type Notice struct {
	Kind    Kind
	Message string
	Code    string
}

func (n *Notice) IsError() bool {
	return n != nil && n.Kind == KindError
}

var (
	LoadListFailed   = Notice{Kind: KindError, Message: "Erro ao carregar eventos.", Code: "erro-lista"}
	LoadDetailFailed = Notice{Kind: KindError, Message: "Erro ao carregar detalhes.", Code: "erro-detalhes"}
	CreateFailed     = Notice{Kind: KindError, Message: "Erro ao cadastrar evento.", Code: "erro-cadastro"}
	UpdateFailed     = Notice{Kind: KindError, Message: "Erro ao atualizar evento.", Code: "erro-atualizacao"}
	Created          = Notice{Kind: KindSuccess, Message: "Evento cadastrado com sucesso!", Code: "evento-cadastrado"}
	Updated          = Notice{Kind: KindSuccess, Message: "Evento atualizado com sucesso!", Code: "evento-atualizado"}
)

var byCode = map[string]Notice{
	LoadListFailed.Code:   LoadListFailed,
	LoadDetailFailed.Code: LoadDetailFailed,
	CreateFailed.Code:     CreateFailed,
	UpdateFailed.Code:     UpdateFailed,
	Created.Code:          Created,
	Updated.Code:          Updated,
}

// FromCode resolves a redirect code; unknown codes yield nil so that a
// hand-typed query string cannot inject text.
func FromCode(code string) *Notice {
	n, ok := byCode[code]
	if !ok {
		return nil
	}
	return &n
}

// Invalid builds the notice shown when required fields are missing or a
// value cannot be parsed.
func Invalid(message string) *Notice {
	return &Notice{Kind: KindError, Message: message}
}
