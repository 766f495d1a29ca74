// Package labels holds the candidate-label taxonomy used for zero-shot
// classification and the rules for extending it per call.
package labels

// defaultLabels is the built-in taxonomy, in Portuguese to match the content
// the service classifies. Order matters: it is preserved into the candidate
// set handed to the classifier.
var defaultLabels = []string{
	"Desafios e Tendências Virais",
	"Análises e Críticas de Filmes/Séries",
	"Reações e Comentários",
	"Gameplay e Let's Play",
	"Esports",
	"Skits e Paródias",
	"Humor e Stand-Up",
	"Vlogs Pessoais",
	"Lifestyle e Produtividade",
	"Tutoriais e Como Fazer",
	"Explicações e Análises",
	"Videoclipes e Covers",
	"Desafios Musicais",
	"Gastronomia e Receitas",
	"Tecnologia e Unboxing",
	"Canais de Viagem",
	"DIY (Faça Você Mesmo)",
	"Estudos e Educação",
	"Ciência e Inovação",
	"Notícias e Atualidades",
	"Reações a Vídeos Populares",
	"Reações a Filmes e Séries",
	"Reações a Clipes Musicais",
	"Reações a Jogos e Gameplay",
	"Reações a Vídeos Virais e Memes",
	"Reações a Notícias e Tendências",
	"Reações a Eventos ao Vivo",
	"Reações a Lançamentos de Tecnologias",
	"Reações a Desafios de Comida",
	"Reações a Shows de Comédia",
	"Tecnologia e Inovação",
	"História e Cultura",
	"Entrevistas com Especialistas",
	"Desenvolvimento Pessoal e Produtividade",
	"True Crime",
	"Comédia e Entretenimento",
	"Política e Atualidades",
	"Economia e Negócios",
	"Saúde e Bem-Estar",
	"Religião e Filosofia",
	"Futuro do Trabalho",
	"Diversidade e Inclusão",
	"Viagens e Aventuras",
	"Cinema e Séries",
	"Livros e Literatura",
}

// Default returns a fresh copy of the built-in taxonomy so callers can
// append to it without mutating the package state.
func Default() []string {
	out := make([]string, len(defaultLabels))
	copy(out, defaultLabels)
	return out
}

// Merge extends a candidate label set with an optional category and tags.
// The existing set is kept as an unmodified prefix; the category is appended
// first if non-empty and not already present, then each tag in order under
// the same rule. Duplicates are dropped silently (first occurrence wins).
func Merge(candidates []string, category string, tags []string) []string {
	out := make([]string, len(candidates))
	copy(out, candidates)

	seen := make(map[string]struct{}, len(out)+len(tags)+1)
	for _, c := range out {
		seen[c] = struct{}{}
	}

	if category != "" {
		if _, ok := seen[category]; !ok {
			out = append(out, category)
			seen[category] = struct{}{}
		}
	}
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; !ok {
			out = append(out, tag)
			seen[tag] = struct{}{}
		}
	}
	return out
}
