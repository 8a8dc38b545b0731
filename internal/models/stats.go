package models

// StatsOverview aggregates all active restaurants
type StatsOverview struct {
	TotalRestaurants int64   `bson:"totalRestaurants" json:"totalRestaurants"`
	AverageRating    float64 `bson:"averageRating" json:"averageRating"`
}

// GroupCount is a bucket of a grouped count
type GroupCount struct {
	ID    string `bson:"_id" json:"_id"`
	Count int64  `bson:"count" json:"count"`
}

// RestaurantStats is the payload of the stats endpoint
type RestaurantStats struct {
	Overview     StatsOverview `json:"overview"`
	ByLocation   []GroupCount  `json:"byLocation"`
	ByCuisine    []GroupCount  `json:"byCuisine"`
	ByPriceRange []GroupCount  `json:"byPriceRange"`
}
