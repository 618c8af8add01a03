package subscription

type SubscribeRequest struct {
	PlanID string `json:"plan_id" binding:"required"`
}
