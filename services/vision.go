package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"google.golang.org/genai"
)

// LLMModelName selects the Gemini model used for photo analysis.
type LLMModelName int32

const (
	Pro25 LLMModelName = iota
	Flash25
	FlashLite25
	Flash20
)

func (t LLMModelName) String() string {
	switch t {
	case Pro25:
		return "gemini-2.5-pro"
	case Flash25:
		return "gemini-2.5-flash"
	case FlashLite25:
		return "gemini-2.5-flash-lite-preview-06-17"
	case Flash20:
		return "gemini-2.0-flash"
	default:
		return "gemini-2.0-flash"
	}
}

func floatPointer(f float32) *float32 {
	return &f
}

// ClothingAnalysis is what the model extracts from a clothing photo. Type
// uses the same vocabulary the outfit generator buckets by.
type ClothingAnalysis struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Color    string `json:"color"`
	Material string `json:"material"`
}

type VisionProcessor interface {
	AnalyzeClothingPhoto(filePath string, modelName LLMModelName) (*ClothingAnalysis, error)
}

type GoogleVisionProcessor struct{}

func tryUploadGoogleStorage(ctx context.Context, client *genai.Client, filePath string, newName *string) (*genai.File, error) {
	var genFile *genai.File
	var err error
	maxUploadTimes := 3
	for i := range maxUploadTimes {
		config := &genai.UploadFileConfig{}
		if newName != nil {
			config = &genai.UploadFileConfig{
				Name: *newName,
			}
		}

		genFile, err = client.Files.UploadFromPath(ctx, filePath, config)
		if err == nil {
			fmt.Println("File uploaded successfully:", filePath, "Attempt:", i+1)
			return genFile, nil
		}
		fmt.Printf("Error uploading file %s, attempt %d: %v\n", filePath, i+1, err)
	}
	return nil, fmt.Errorf("failed to upload file to google storage after %d attempts: %s", maxUploadTimes, filePath)
}

const clothingTypeVocabulary = `Shirt, T-shirt, Dress Shirt, Blouse, Top, Tank Top, Sports Bra, Tunic, ` +
	`Pants, Jeans, Shorts, Skirt, Dress Pants, Suit Pants, Leggings, Track Pants, Maxi Skirt, Flowy Pants, High-Waisted Pants, ` +
	`Shoes, Sneakers, Sandals, Boots, Dress Shoes, Heels, Loafers, Flats, Athletic Shoes, ` +
	`Jacket, Blazer, Suit Jacket, Accessory, Jewelry, Hat, Scarf, Belt`

func (GoogleVisionProcessor) AnalyzeClothingPhoto(filePath string, modelName LLMModelName) (*ClothingAnalysis, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  os.Getenv("GOOGLE_API_KEY"),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating genai client: %v", err)
	}

	genFile, err := tryUploadGoogleStorage(ctx, client, filePath, nil)
	if err != nil {
		fmt.Println("Error uploading clothing photo:", filePath, err)
		return nil, fmt.Errorf("error uploading clothing photo %s: %v", filePath, err)
	}

	parts := []*genai.Part{
		{
			FileData: &genai.FileData{
				FileURI:  genFile.URI,
				MIMEType: genFile.MIMEType,
			},
		},
		{
			Text: "Identify the single clothing item in this photo. Pick the closest type from this list: " +
				clothingTypeVocabulary + ". Give the dominant color as a short common color name and a short " +
				"shopper-friendly item name. If the material is recognizable, name it, otherwise leave it empty.",
		},
	}

	result, err := client.Models.GenerateContent(ctx, modelName.String(), []*genai.Content{{Parts: parts}}, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		CandidateCount:   1,
		MaxOutputTokens:  2000,
		Temperature:      floatPointer(0.4),
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{
				{Text: `You are a wardrobe cataloging assistant. Respond with JSON only. If the photo contains no clothing item, use "Unknown item" as the name and leave type and color empty.`},
			},
		},
		ResponseSchema: &genai.Schema{
			Type: "object",
			Properties: map[string]*genai.Schema{
				"name":     {Type: "string"},
				"type":     {Type: "string"},
				"color":    {Type: "string"},
				"material": {Type: "string"},
			},
			Required: []string{"name", "type", "color"},
		},
	})
	if err != nil {
		fmt.Println("Error in GenerateContent:", err)
		return nil, fmt.Errorf("%v", err)
	}

	if result.UsageMetadata != nil {
		fmt.Println("Input token count:", result.UsageMetadata.PromptTokenCount)
		fmt.Println("Output token count:", result.UsageMetadata.CandidatesTokenCount)
		fmt.Println("Total token count:", result.UsageMetadata.TotalTokenCount)
	}
	if result.PromptFeedback != nil {
		fmt.Println(result.PromptFeedback.BlockReason)
		fmt.Println(result.PromptFeedback.BlockReasonMessage)
		return nil, fmt.Errorf("content violation: %s %s", filePath, result.PromptFeedback.BlockReasonMessage)
	}

	for _, c := range result.Candidates {
		for _, rating := range c.SafetyRatings {
			if rating.Blocked {
				return nil, fmt.Errorf("content violation: photo blocked for %s", rating.Category)
			}
		}
	}

	var analysis ClothingAnalysis
	if err := json.Unmarshal([]byte(result.Text()), &analysis); err != nil {
		return nil, fmt.Errorf("error parsing analysis response: %v", err)
	}
	return &analysis, nil
}
