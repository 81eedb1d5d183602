package keyword

// Default Russian vocabulary. Exact token forms only; the matcher does no
// stemming, so common inflections are listed out.
var DefaultVocab = []string{
	"бля",
	"блять",
	"блядь",
	"бляди",
	"ебать",
	"ебал",
	"ебала",
	"ебаный",
	"ебаная",
	"ебанутый",
	"заебал",
	"заебала",
	"заебали",
	"ебло",
	"хуй",
	"хуи",
	"хуя",
	"хую",
	"хуем",
	"хуйня",
	"хуйней",
	"хуево",
	"хуевый",
	"нахуй",
	"нихуя",
	"охуел",
	"охуела",
	"охуели",
	"охуенно",
	"пизда",
	"пизды",
	"пиздец",
	"пиздато",
	"пиздатый",
	"пиздеж",
	"пиздит",
	"пиздишь",
	"распиздяй",
	"мудак",
	"мудаки",
	"мудила",
	"гандон",
	"гондон",
	"долбоеб",
	"долбоебы",
	"уебок",
	"уебки",
	"уебище",
	"сука",
	"суки",
	"сучка",
	"падла",
	"паскуда",
	"хер",
	"херня",
	"похер",
	"нахер",
	"херово",
	"залупа",
	"дрочить",
	"дрочит",
	"шлюха",
	"шлюхи",
	"еблан",
	"ебланы",
	"пидор",
	"пидоры",
	"пидорас",
	"пидарас",
}

// DefaultLexicon builds a Lexicon over the built-in vocabulary.
func DefaultLexicon() *Lexicon {
	return NewLexicon(DefaultVocab)
}
