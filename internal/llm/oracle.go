package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

// Protocol selects the assistant persona for chat responses.
type Protocol string

const (
	ProtocolDefense      Protocol = "defense"
	ProtocolOperation    Protocol = "operation"
	ProtocolOptimization Protocol = "optimization"
)

// protocolInstructions are the persona briefs folded into the chat system
// prompt. Responses are Portuguese-BR, matching the vault UI.
var protocolInstructions = map[Protocol]string{
	ProtocolDefense:      "Você é o Protocolo de Defesa Nexus. Seu foco é segurança cibernética extrema, análise de vulnerabilidades, SHA-256 e forense digital. Use terminologia técnica pesada e tom de vigilância.",
	ProtocolOperation:    "Você é o Protocolo de Operação Nexus. Seu foco é guiar o usuário em instalações, explicar compatibilidade de arquivos e facilitar o acesso aos binários do cofre.",
	ProtocolOptimization: "Você é o Protocolo de Otimização Nexus. Seu foco é performance, tuning de sistema, redução de latência e eficiência de recursos. Dê dicas de 'power user'.",
}

// FallbackChatMessage is returned whenever the provider is unreachable or
// answers with garbage. Every oracle failure degrades to this; it is
// never propagated as an error to the chat client.
const FallbackChatMessage = "ERRO DE CONEXÃO: Não foi possível acessar o Nexus Central. Verifique se a API Key está configurada corretamente no ambiente de deploy."

// Describe is the oracle's draft for an upload in progress.
type Describe struct {
	Description string `json:"description"`
	Category    string `json:"category"`
}

// FallbackDescribe is the deterministic local draft used when the oracle
// cannot be reached.
func FallbackDescribe(filename string) Describe {
	return Describe{
		Description: fmt.Sprintf("Arquivo pronto para deploy local: %s", filename),
		Category:    "Desenvolvimento",
	}
}

// Oracle wraps a Provider with the two vault use cases: drafting upload
// descriptions and answering chat messages. It never returns an error for
// provider failures — both paths have defined local fallbacks.
type Oracle struct {
	provider Provider
	model    string
}

// NewOracle creates an Oracle. provider may be nil, in which case every
// call takes the fallback path immediately.
func NewOracle(provider Provider, model string) *Oracle {
	return &Oracle{provider: provider, model: model}
}

// Available reports whether a provider is configured.
func (o *Oracle) Available() bool { return o.provider != nil }

// DescribeUpload asks the oracle for a short technical description and a
// category for the given file. Any failure — no provider, network error,
// malformed JSON — yields the deterministic fallback.
func (o *Oracle) DescribeUpload(ctx context.Context, filename string, sizeBytes int64) Describe {
	if o.provider == nil {
		return FallbackDescribe(filename)
	}

	prompt := fmt.Sprintf(
		`Analise o arquivo: %q (%d bytes). Forneça: 1. Descrição técnica (20 palavras), 2. Categoria (Utilitários, Desenvolvimento, Multimídia ou Documentos). Responda em JSON com os campos "description" e "category".`,
		filename, sizeBytes,
	)

	resp, err := o.provider.Complete(ctx, CompletionRequest{
		Model:       o.model,
		Messages:    []Message{{Role: RoleUser, Content: prompt}},
		MaxTokens:   256,
		Temperature: 0.2,
		JSONMode:    true,
	})
	if err != nil {
		log.Printf("oracle: describe failed, using fallback: %v", err)
		return FallbackDescribe(filename)
	}

	var d Describe
	if err := json.Unmarshal([]byte(resp.Content), &d); err != nil || d.Description == "" {
		log.Printf("oracle: malformed describe response, using fallback")
		return FallbackDescribe(filename)
	}
	return d
}

// Chat answers a user message under the given protocol persona. history
// carries prior turns in order; contextNotes are optional vault facts
// (e.g. semantically similar catalog entries) folded into the system
// prompt. Failures yield FallbackChatMessage, never an error.
func (o *Oracle) Chat(ctx context.Context, protocol Protocol, history []Message, text string, contextNotes []string) string {
	if o.provider == nil {
		return FallbackChatMessage
	}

	instructions, ok := protocolInstructions[protocol]
	if !ok {
		instructions = protocolInstructions[ProtocolOperation]
	}

	var sb strings.Builder
	sb.WriteString("Você é o NEXUS CORE, a inteligência central deste cofre de downloads técnicos.\n")
	sb.WriteString("Protocolo Ativo: ")
	sb.WriteString(instructions)
	sb.WriteString("\n\nRegras:\n")
	sb.WriteString("1. Responda em Português-BR.\n")
	sb.WriteString("2. Use Markdown para listas e negrito.\n")
	sb.WriteString("3. Seja conciso mas extremamente técnico.\n")
	sb.WriteString("4. Adicione um 'Log de Status' ao final de cada resposta.\n")
	if len(contextNotes) > 0 {
		sb.WriteString("\nArquivos relevantes no cofre:\n")
		for _, note := range contextNotes {
			sb.WriteString("- ")
			sb.WriteString(note)
			sb.WriteString("\n")
		}
	}

	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: RoleSystem, Content: sb.String()})
	messages = append(messages, history...)
	messages = append(messages, Message{Role: RoleUser, Content: text})

	resp, err := o.provider.Complete(ctx, CompletionRequest{
		Model:       o.model,
		Messages:    messages,
		Temperature: 0.7,
	})
	if err != nil {
		log.Printf("oracle: chat failed, using fallback: %v", err)
		return FallbackChatMessage
	}
	if strings.TrimSpace(resp.Content) == "" {
		return FallbackChatMessage
	}
	return resp.Content
}
