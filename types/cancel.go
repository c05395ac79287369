package types

type CancelRequest struct {
	Gid string `json:"gid"`
}
