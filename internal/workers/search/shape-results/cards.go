// internal/workers/search/shape-results/cards.go
package shaperesults

import (
	"chaysh/internal/language"
	"chaysh/internal/models"
)

// buildBoxes returns the model, opinions and manuals boxes in that order.
func buildBoxes(info *models.ExtractedInfo, variations *models.VariationSet, profile *language.Profile) []models.ActionBox {
	boxes := make([]models.ActionBox, 0, 3)

	if variations.IsSpecific {
		boxes = append(boxes, models.ActionBox{
			Type:    models.BoxTypeInfo,
			Title:   profile.Boxes.CurrentModel,
			Message: profile.Messages.SpecificModel,
		})
	} else {
		actions := make([]models.Action, 0, len(variations.Variations))
		for _, v := range variations.Variations {
			actions = append(actions, models.Action{
				Type:  models.ActionTypeSearch,
				Label: v.Name,
				Query: v.Query,
			})
		}
		boxes = append(boxes, models.ActionBox{
			Type:       models.BoxTypeVariations,
			Title:      profile.Boxes.SelectModel,
			Variations: variations.Variations,
			Actions:    actions,
		})
	}

	if len(info.Opinions) > 0 {
		boxes = append(boxes, models.ActionBox{
			Type:     models.BoxTypeOpinions,
			Title:    profile.Boxes.Opinions,
			Opinions: info.Opinions,
		})
	} else {
		boxes = append(boxes, models.ActionBox{
			Type:    models.BoxTypePlaceholder,
			Title:   profile.Boxes.Opinions,
			Message: profile.Messages.NoOpinions,
		})
	}

	if len(info.Manuals) > 0 {
		boxes = append(boxes, models.ActionBox{
			Type:    models.BoxTypeManuals,
			Title:   profile.Boxes.Manuals,
			Manuals: info.Manuals,
		})
	} else {
		boxes = append(boxes, models.ActionBox{
			Type:    models.BoxTypePlaceholder,
			Title:   profile.Boxes.Manuals,
			Message: profile.Messages.NoManuals,
		})
	}

	return boxes
}

func degradedCard(query string, profile *language.Profile) models.ResultCard {
	return models.ResultCard{
		Name:        query,
		Description: []string{profile.Messages.ProcessingFailed},
		SourceInfo:  profile.Messages.ErrorSourceInfo,
		ActionBoxes: []models.ActionBox{},
		Suggestions: profile.SuggestionsFor(query),
		Actions:     []models.Action{models.ChatAction(query)},
	}
}

func errorCard(query string, profile *language.Profile) models.ResultCard {
	return models.ResultCard{
		Name:        query,
		Description: []string{profile.Messages.GenericFailure},
		SourceInfo:  profile.Messages.ErrorSourceInfo,
		ActionBoxes: []models.ActionBox{},
		Suggestions: []models.Suggestion{},
		Actions:     []models.Action{models.ChatAction(query)},
	}
}
