package pipeline

// CleanFunc normalizes raw report text before embedding, e.g. stripping
// section headers and de-identification placeholders.
type CleanFunc func(text string) (string, error)

// EmbedFunc is a function that generates embeddings for text
type EmbedFunc func(text string) ([]float32, error)

// Pipeline combines report cleaning and embedding functions
type Pipeline struct {
	Cleaner  CleanFunc
	Embedder EmbedFunc
}

// NewPipeline creates a new processing pipeline
func NewPipeline(cleaner CleanFunc, embedder EmbedFunc) *Pipeline {
	return &Pipeline{
		Cleaner:  cleaner,
		Embedder: embedder,
	}
}

// Embed cleans one report text and generates its embedding.
func (p *Pipeline) Embed(text string) ([]float32, error) {
	if p.Cleaner != nil {
		cleaned, err := p.Cleaner(text)
		if err != nil {
			return nil, err
		}
		text = cleaned
	}
	return p.Embedder(text)
}

// EmbedAll embeds a batch of report texts in input order.
func (p *Pipeline) EmbedAll(texts []string) ([][]float32, error) {
	embeddings := make([][]float32, 0, len(texts))
	for _, text := range texts {
		embedding, err := p.Embed(text)
		if err != nil {
			return nil, err
		}
		embeddings = append(embeddings, embedding)
	}
	return embeddings, nil
}
