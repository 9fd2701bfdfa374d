package models

// SeedTeams returns the three teams every fresh context starts with.
// Каждый вызов возвращает новый slice, чтобы вызывающие не могли
// испортить seed-данные друг друга.
func SeedTeams() []Team {
	return []Team{
		{ID: 1, Name: "High-Energy Sales Team"},
		{ID: 2, Name: "The Code Wizards (IT)"},
		{ID: 3, Name: "Marketing Mavericks"},
	}
}

// SeedGifts returns the default gift catalog.
func SeedGifts() []Gift {
	return []Gift{
		{ID: 1, Name: "螢光棒", Price: 100, Image: "https://i.imgur.com/Y1YV9s3.png", IsVisible: true, Animation: AnimationGlowstickWave},
		{ID: 2, Name: "啤酒", Price: 200, Image: "https://i.imgur.com/s91I7C1.png", IsVisible: true, Animation: AnimationBeerCheers},
		{ID: 3, Name: "歡呼喇叭", Price: 500, Image: "https://i.imgur.com/a42A5Q1.png", IsVisible: true, Animation: AnimationHornBlast},
		{ID: 4, Name: "鮮花", Price: 1000, Image: "https://i.imgur.com/paRekpA.png", IsVisible: true, Animation: AnimationFlowerBloom},
		{ID: 5, Name: "跑車", Price: 3500, Image: "https://i.imgur.com/BEMiS12.png", IsVisible: true, Animation: AnimationCarDrive},
		{ID: 6, Name: "火箭", Price: 5000, Image: "https://i.imgur.com/fAP7s1T.png", IsVisible: true, Animation: AnimationRocketFly},
		{ID: 7, Name: "鑽石", Price: 8000, Image: "https://i.imgur.com/En5o23D.png", IsVisible: true, Animation: AnimationDiamondFlash},
		{ID: 8, Name: "私人飛機", Price: 10000, Image: "https://i.imgur.com/oKDRa4F.png", IsVisible: true, Animation: AnimationPlaneFly},
	}
}

// DefaultCurrentTeamID returns the selector default: the first seed team.
func DefaultCurrentTeamID() *int64 {
	id := int64(1)
	return &id
}
