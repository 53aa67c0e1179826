package app

import "neoncore/console/internal/domain"

// Seed fixtures used when the external store has no collections yet. Team
// ids are static in this version; there is no team-creation endpoint.
var seedTeams = []domain.Team{
	{
		ID:      "t1",
		Name:    "ESPECTROS NEÓN",
		Members: []string{"op-vex", "op-nyx", "op-raze"},
		Score:   45000,
		Rank:    3,
		Motto:   "Sombras en la red.",
	},
	{
		ID:      "t2",
		Name:    "CORREDORES SYNTH",
		Members: []string{"op-jinx", "op-volt"},
		Score:   32000,
		Rank:    8,
		Motto:   "La velocidad es la única verdad.",
	},
	{
		ID:      "t3",
		Name:    "CAMINANTES DEL VACÍO",
		Members: []string{"op-echo", "op-null", "op-hex"},
		Score:   56000,
		Rank:    1,
		Motto:   "Abraza el silencio.",
	},
}

var seedAchievements = []domain.Achievement{
	{ID: "a1", Name: "Primera Sangre", Icon: "fa-bolt", Description: "Completa tu primera tarea", Rarity: domain.RarityCommon},
	{ID: "a2", Name: "Señor del Cyber", Icon: "fa-crown", Description: "Alcanza el top 10 del ranking", Rarity: domain.RarityEpic},
	{ID: "a3", Name: "Samurái del Código", Icon: "fa-dragon", Description: "Envía 50 propuestas aprobadas", Rarity: domain.RarityLegendary},
}

var seedProposals = []domain.Proposal{
	{
		ID:          "p1",
		Author:      "NexusOne",
		Title:       "Escalado de Recompensas",
		Description: "Implementar lógica que escale las recompensas basadas en la dificultad de la tarea y nivel del jugador.",
		Upvotes:     142,
		Downvotes:   12,
		Status:      domain.ProposalApproved,
	},
	{
		ID:          "p2",
		Author:      "GlitchMaster",
		Title:       "Guerras de Facción 2.0",
		Description: "Batallas de facción en tiempo real durante eventos de fin de semana.",
		Upvotes:     89,
		Downvotes:   45,
		Status:      domain.ProposalPending,
	},
	{
		ID:          "p3",
		Author:      "ZeroDay",
		Title:       "Temas de Red Neuronal",
		Description: "Inyección de CSS personalizado para miembros de élite para personalizar el panel.",
		Upvotes:     12,
		Downvotes:   88,
		Status:      domain.ProposalRejected,
	},
}

var seedProjects = []domain.Project{
	{
		ID:          "pr1",
		Title:       "Protocolo de Seguridad X-12",
		Description: "Implementación de un sistema de firewall reactivo basado en aprendizaje automático para detener ataques de inyección.",
		Type:        "team",
		Status:      "deployed",
		Date:        "2024-03-15",
		TechStack:   []string{"Python", "Docker", "AWS"},
	},
	{
		ID:          "pr2",
		Title:       "Terminal de Bio-Acceso",
		Description: "Diseño de interfaz para escáneres retinianos con respuesta en milisegundos y encriptación de extremo a extremo.",
		Type:        "solo",
		Status:      "in-progress",
		Date:        "2024-05-02",
		TechStack:   []string{"React", "TypeScript", "Rust"},
	},
	{
		ID:          "pr3",
		Title:       "Indexador de Red Oscura",
		Description: "Algoritmo de búsqueda optimizado para bases de datos no estructuradas en entornos de baja conectividad.",
		Type:        "team",
		Status:      "archived",
		Date:        "2023-11-20",
		TechStack:   []string{"Go", "MongoDB", "Redis"},
	},
}
