package dto

type ServerInfo struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

type DashboardStatusResponse struct {
	Servers     []ServerInfo `json:"servers"`
	NodeState   string       `json:"node_state"`
	BackendPort uint         `json:"backend_port"`
}
