package screens

// Screen IDs
const (
	NodesScreenID  = "nodes"
	EdgesScreenID  = "edges"
	GroupsScreenID = "groups"
	HelpScreenID   = "help"
)

// minDynamicWidth is the narrowest a fill-the-rest column gets
const minDynamicWidth = 20
