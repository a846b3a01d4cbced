package services

import (
	"sales-dashboard/internal/models"
)

// ComputeInsights derives the five argmax highlights from one view
// snapshot. Each is the top-1 group of an aggregation; when groups tie on
// the measure, the first-encountered group wins (Aggregate's stable
// ordering). An empty view degrades every insight to the "N/A"/0 sentinel;
// a dimension missing from the source file is a structural failure and is
// returned as an error instead.
func ComputeInsights(v View) (models.InsightSet, error) {
	var set models.InsightSet
	var err error

	if set.BestSellingProduct, err = topGroup(v, ColProductName, SumQuantity); err != nil {
		return models.InsightSet{}, err
	}
	if set.MostProfitableCategory, err = topGroup(v, ColCategory, SumRevenue); err != nil {
		return models.InsightSet{}, err
	}
	if set.TopState, err = topGroup(v, ColState, SumRevenue); err != nil {
		return models.InsightSet{}, err
	}
	if set.TopAgeBracket, err = topGroup(v, ColAgeBracket, SumRevenue); err != nil {
		return models.InsightSet{}, err
	}
	if set.TopCustomer, err = topCustomer(v); err != nil {
		return models.InsightSet{}, err
	}
	return set, nil
}

func topGroup(v View, dimension string, m Measure) (models.Insight, error) {
	groups, err := Aggregate(v, dimension, m, 1)
	if err != nil {
		return models.Insight{}, err
	}
	if len(groups) == 0 {
		return models.Insight{Key: models.NoData}, nil
	}
	return models.Insight{Key: groups[0].Key, Value: groups[0].Value}, nil
}

// topCustomer groups spend by customer id alone and displays the first
// name seen for that id, so a customer recorded under two name spellings
// still counts as one.
func topCustomer(v View) (models.Insight, error) {
	spend, err := Aggregate(v, ColCustomerID, SumRevenue, 1)
	if err != nil {
		return models.Insight{}, err
	}
	if len(spend) == 0 {
		return models.Insight{Key: models.NoData, Label: models.NoData}, nil
	}

	name := models.Unknown
	for i := 0; i < v.Len(); i++ {
		if o := v.Row(i); o.CustomerID == spend[0].Key {
			name = o.CustomerName
			break
		}
	}
	return models.Insight{Key: spend[0].Key, Label: name, Value: spend[0].Value}, nil
}
