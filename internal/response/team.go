package response

import "task-manager/internal/dto"

type TeamResponse struct {
	Team dto.TeamDTO `json:"team"`
}

type AllTeamsResponse struct {
	Teams []dto.TeamDTO `json:"teams"`
	Count int           `json:"count"`
}

type MembershipResponse struct {
	Membership dto.MembershipDTO `json:"membership"`
}

type TeamMembersResponse struct {
	TeamID  string              `json:"team_id"`
	Members []dto.TeamMemberDTO `json:"members"`
	Count   int                 `json:"count"`
}
