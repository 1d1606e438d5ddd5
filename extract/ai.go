package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"propscout/gazetteer"
	"propscout/models"
	"propscout/textnorm"
)

var systemInstruction = `
Sos un asistente de una inmobiliaria de Santa Fe, Argentina. Recibís la consulta
de un cliente en texto libre y la convertís en criterios de búsqueda
estructurados.

Reglas:
- "property_type" es uno de: apartment, house, land, commercial, office, garage, other.
- "operation" es "purchase" o "rent". Si no se menciona, asumí "purchase".
- "currency" es "USD" o "ARS". Ventas en dólares y alquileres en pesos salvo
  que el cliente diga lo contrario.
- Los precios van como números, sin separadores de miles. Si el cliente escribe
  un presupuesto de compra menor a 1000 (por ejemplo "hasta 150"), se refiere a
  miles: devolvé 150000.
- "locations" son barrios o localidades mencionadas, con su nombre propio
  (por ejemplo "7 jefes" es "Siete Jefes").
- "bedrooms_min" son dormitorios; "rooms_min" son ambientes. No confundirlos.
- "features" son etiquetas cortas en inglés como "pool", "yard", "balcony",
  "needs-renovation".
- "notes" resume en una frase lo que no entra en los demás campos.
- "confidence" entre 0 y 100 según cuánta información explícita dio el cliente.
No inventes datos que el cliente no dio.
`

// GeminiStrategy asks the model for criteria as strict JSON matching the
// Criteria wire shape. Location names come back free-form, so they are passed
// through the gazetteer for canonicalization before use.
type GeminiStrategy struct {
	apiKey string
	model  string
	gaz    *gazetteer.Table
}

func NewGeminiStrategy(apiKey, model string, gaz *gazetteer.Table) *GeminiStrategy {
	return &GeminiStrategy{apiKey: apiKey, model: model, gaz: gaz}
}

func (s *GeminiStrategy) Name() string { return "gemini" }

func (s *GeminiStrategy) Extract(ctx context.Context, rawText string) (*models.Criteria, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  s.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	systemContent := &genai.Content{
		Parts: []*genai.Part{{Text: systemInstruction}},
		Role:  "system",
	}
	userContent := &genai.Content{
		Parts: []*genai.Part{{Text: "Consulta del cliente:\n\n" + rawText}},
		Role:  "user",
	}

	resp, err := client.Models.GenerateContent(ctx, s.model,
		[]*genai.Content{systemContent, userContent},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   criteriaSchema(),
		})
	if err != nil {
		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}

	respText := stripCodeFences(resp.Text())

	var criteria models.Criteria
	if err := json.Unmarshal([]byte(respText), &criteria); err != nil {
		return nil, fmt.Errorf("failed to unmarshal gemini JSON response: %w. Raw text: %s", err, respText)
	}

	criteria.Locations = s.canonicalize(criteria.Locations)
	return &criteria, nil
}

// canonicalize maps free-form location names onto gazetteer canonical names,
// keeping unknown names as-is so the model can still surface places the table
// does not cover.
func (s *GeminiStrategy) canonicalize(locations []string) []string {
	out := make([]string, 0, len(locations))
	seen := make(map[string]bool)
	for _, loc := range locations {
		name := strings.TrimSpace(loc)
		if name == "" {
			continue
		}
		if matches := s.gaz.FindAll(textnorm.Fold(name)); len(matches) > 0 {
			name = matches[0]
		}
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

// Some models wrap JSON in markdown fences even with a JSON response type set.
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func criteriaSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"property_type": {Type: genai.TypeString, Description: "apartment, house, land, commercial, office, garage or other."},
			"operation":     {Type: genai.TypeString, Description: "purchase or rent."},
			"price_max":     {Type: genai.TypeNumber, Description: "Maximum budget as a plain number."},
			"price_min":     {Type: genai.TypeNumber, Description: "Minimum price if the client gave a range."},
			"currency":      {Type: genai.TypeString, Description: "USD or ARS."},
			"locations": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "Neighborhoods or towns mentioned, proper-cased.",
			},
			"bedrooms_min": {Type: genai.TypeInteger, Description: "Minimum bedrooms (dormitorios)."},
			"rooms_min":    {Type: genai.TypeInteger, Description: "Minimum rooms (ambientes)."},
			"has_parking":  {Type: genai.TypeBoolean, Description: "Whether the client asked for parking."},
			"features": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "Short english feature tags.",
			},
			"notes":      {Type: genai.TypeString, Description: "One-line summary of everything else."},
			"confidence": {Type: genai.TypeInteger, Description: "0-100 extraction confidence."},
		},
		Required: []string{"property_type", "operation", "currency", "confidence"},
	}
}
