package adjust_loyalty_points

const (
	ActionAdd    = "add"
	ActionRedeem = "redeem"
)

// AdjustPointsRequest HTTP request model
type AdjustPointsRequest struct {
	Action string `json:"action"` // add | redeem
	Points int    `json:"points"`
}
