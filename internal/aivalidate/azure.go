package aivalidate

import (
	"context"
	"errors"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/ai/azopenai"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/sirupsen/logrus"
)

const azureDefaultBatch = 10

// azureProvider scores candidates through an Azure OpenAI deployment.
type azureProvider struct {
	client     *azopenai.Client
	deployment string
	maxTokens  int
	batchSize  int
	log        logrus.FieldLogger
}

func newAzureOpenAI(cfg Config, log logrus.FieldLogger) (Provider, error) {
	if cfg.APIKey == "" || cfg.Endpoint == "" || cfg.Deployment == "" {
		return nil, errors.New("azure-openai requires api key, endpoint and deployment")
	}
	client, err := azopenai.NewClientWithKeyCredential(cfg.Endpoint, azcore.NewKeyCredential(cfg.APIKey), nil)
	if err != nil {
		return nil, fmt.Errorf("azure-openai client: %w", err)
	}
	p := &azureProvider{
		client:     client,
		deployment: cfg.Deployment,
		maxTokens:  cfg.MaxTokens,
		batchSize:  clampBatchSize(cfg.BatchSize, azureDefaultBatch),
		log:        log,
	}
	if p.maxTokens <= 0 {
		p.maxTokens = openAIDefaultMaxTokens
	}
	log.WithField("deployment", p.deployment).Info("initialized azure-openai provider")
	return p, nil
}

func (p *azureProvider) Name() string   { return "azure-openai" }
func (p *azureProvider) BatchSize() int { return p.batchSize }

func (p *azureProvider) ScoreOne(ctx context.Context, item Item) (Score, error) {
	return scoreOneViaBatch(ctx, p, item)
}

func (p *azureProvider) ScoreBatch(ctx context.Context, items []Item) ([]Score, error) {
	maxTokens := int32(p.maxTokens * len(items))
	resp, err := p.client.GetChatCompletions(ctx, azopenai.ChatCompletionsOptions{
		DeploymentName: to.Ptr(p.deployment),
		MaxTokens:      to.Ptr(maxTokens),
		Messages: []azopenai.ChatRequestMessageClassification{
			&azopenai.ChatRequestSystemMessage{
				Content: azopenai.NewChatRequestSystemMessageContent(systemPrompt),
			},
			&azopenai.ChatRequestUserMessage{
				Content: azopenai.NewChatRequestUserMessageContent(batchPrompt(items)),
			},
		},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("azure-openai request: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == nil {
		return nil, errors.New("azure-openai returned no completion")
	}
	return parseBatchResponse(*resp.Choices[0].Message.Content)
}
