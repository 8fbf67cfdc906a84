package handlers

// ProductRequest is the body of POST /products. Id is accepted and ignored; the store assigns it.
type ProductRequest struct {
	Id    int     `json:"id,omitempty"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type ProductResponse struct {
	Id    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type ConfigResponse struct {
	ConnectionString string `json:"connectionString"`
}

type HealthResponse struct {
	Status        string            `json:"status"`
	Checks        map[string]string `json:"checks"`
	LastHeartbeat string            `json:"lastHeartbeat,omitempty"`
}
