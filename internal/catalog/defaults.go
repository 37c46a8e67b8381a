package catalog

var defaultTypes = []struct {
	name string
	subs []string
}{
	{"Casa", []string{"Aluguel", "Condomínio", "IPTU", "Manutenção"}},
	{"Carro", []string{"Combustível", "Seguro", "Manutenção", "IPVA", "Transporte por App"}},
	{"Consórcio", []string{"HS"}},
	{"Energia", []string{"Conta de Luz"}},
	{"Mercado", []string{"Compras Mensais", "Extras"}},
	{"Lazer", []string{"Viagem", "Cinema", "Restaurante", "Beleza"}},
	{"Saúde", []string{"Consulta", "Remédio", "Plano de Saúde"}},
	{"Celular/TV/Internet", []string{"Streaming", "Celular", "Internet"}},
	{"Outros", []string{"Diversos"}},
}

// DefaultCatalog returns the expense types and subcategories a new data
// directory starts with.
func DefaultCatalog() []Option {
	var opts []Option
	for _, t := range defaultTypes {
		for _, s := range t.subs {
			opts = append(opts, Option{Type: t.name, Subcategory: s})
		}
	}
	return opts
}
