package rules

// layout is the column set of a bank CSV export. Each role accepts several
// header spellings, matched case-insensitively.
type layout struct {
	name   string
	date   []string
	desc   []string
	signed []string
	debit  []string
	credit []string
}

// layouts is tried in order; debit/credit exports come first because they
// often carry a "valor" balance column too.
var layouts = []layout{
	{
		name:   "cartão",
		date:   []string{"data", "data da compra"},
		desc:   []string{"histórico", "estabelecimento", "descrição"},
		debit:  []string{"débito", "debito"},
		credit: []string{"crédito", "credito"},
	},
	{
		name:   "extrato",
		date:   []string{"data", "data lançamento", "data mov."},
		desc:   []string{"lançamento", "descrição", "histórico"},
		signed: []string{"valor", "valor (r$)", "montante"},
	},
}

// columns holds the header positions of a bound layout. signed is -1 for
// debit/credit exports.
type columns struct {
	date, desc    int
	signed        int
	debit, credit int
}

type colIndex map[string]int

func (c colIndex) find(names []string) (int, bool) {
	for _, name := range names {
		if idx, ok := c[name]; ok {
			return idx, true
		}
	}

	return -1, false
}

// bind resolves l against a header row.
func (l layout) bind(header colIndex) (columns, bool) {
	var (
		cols columns
		ok   bool
	)

	if cols.date, ok = header.find(l.date); !ok {
		return columns{}, false
	}

	if cols.desc, ok = header.find(l.desc); !ok {
		return columns{}, false
	}

	if len(l.signed) > 0 {
		cols.signed, ok = header.find(l.signed)
		cols.debit, cols.credit = -1, -1

		return cols, ok
	}

	cols.signed = -1

	if cols.debit, ok = header.find(l.debit); !ok {
		return columns{}, false
	}

	cols.credit, ok = header.find(l.credit)

	return cols, ok
}
