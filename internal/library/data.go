package library

import "github.com/myrjola/fitcoach/internal/fitness"

// EquipmentNone marks exercises that need no equipment.
const EquipmentNone = "none"

//nolint:funlen,mnd // static table.
func defaultExercises() []fitness.WorkoutExercise {
	return []fitness.WorkoutExercise{
		{
			ID:   "ex-pushup",
			Name: "Push-Up",
			Description: "Keep a straight line from head to heels.\n\n" +
				"1. Hands slightly wider than shoulders.\n2. Lower the chest to a fist's height from the floor.\n" +
				"3. Press back up without flaring the elbows.",
			TargetMuscles: []string{"chest", "triceps", "core"},
			Equipment:     []string{EquipmentNone},
			Prescription:  fitness.RepsPrescription(3, 12),
			Intensity:     fitness.IntensityMedium,
			ImageURL:      "/images/exercises/push-up.webp",
		},
		{
			ID:   "ex-squat",
			Name: "Bodyweight Squat",
			Description: "Sit back between the heels.\n\n" +
				"1. Feet shoulder width apart.\n2. Descend until thighs are parallel.\n3. Drive through the mid-foot.",
			TargetMuscles: []string{"quadriceps", "glutes"},
			Equipment:     []string{EquipmentNone},
			Prescription:  fitness.RepsPrescription(3, 15),
			Intensity:     fitness.IntensityLow,
			ImageURL:      "/images/exercises/squat.webp",
		},
		{
			ID:            "ex-plank",
			Name:          "Plank",
			Description:   "Brace the core and squeeze the glutes. Do **not** let the hips sag.",
			TargetMuscles: []string{"core", "shoulders"},
			Equipment:     []string{EquipmentNone},
			Prescription:  fitness.TimePrescription(3, 45),
			Intensity:     fitness.IntensityLow,
			ImageURL:      "/images/exercises/plank.webp",
		},
		{
			ID:            "ex-burpee",
			Name:          "Burpee",
			Description:   "Squat, kick back to a plank, return and jump. Keep a steady rhythm.",
			TargetMuscles: []string{"full_body"},
			Equipment:     []string{EquipmentNone},
			Prescription:  fitness.TimePrescription(4, 30),
			Intensity:     fitness.IntensityHigh,
			ImageURL:      "/images/exercises/burpee.webp",
		},
		{
			ID:            "ex-mountain-climber",
			Name:          "Mountain Climber",
			Description:   "From a high plank drive the knees towards the chest alternately.",
			TargetMuscles: []string{"core", "hip_flexors"},
			Equipment:     []string{EquipmentNone},
			Prescription:  fitness.TimePrescription(3, 40),
			Intensity:     fitness.IntensityHigh,
			ImageURL:      "/images/exercises/mountain-climber.webp",
		},
		{
			ID:            "ex-goblet-squat",
			Name:          "Goblet Squat",
			Description:   "Hold a dumbbell at the chest and squat with an upright torso.",
			TargetMuscles: []string{"quadriceps", "glutes", "core"},
			Equipment:     []string{"dumbbells"},
			Prescription:  fitness.RepsPrescription(4, 10),
			Intensity:     fitness.IntensityHigh,
			ImageURL:      "/images/exercises/goblet-squat.webp",
		},
		{
			ID:            "ex-dumbbell-row",
			Name:          "Dumbbell Row",
			Description:   "Support on a bench and row the dumbbell towards the hip.",
			TargetMuscles: []string{"lats", "biceps"},
			Equipment:     []string{"dumbbells", "bench"},
			Prescription:  fitness.RepsPrescription(3, 10),
			Intensity:     fitness.IntensityMedium,
			ImageURL:      "/images/exercises/dumbbell-row.webp",
		},
		{
			ID:            "ex-kettlebell-swing",
			Name:          "Kettlebell Swing",
			Description:   "Hinge at the hips and snap them forward to float the bell to chest height.",
			TargetMuscles: []string{"glutes", "hamstrings", "core"},
			Equipment:     []string{"kettlebell"},
			Prescription:  fitness.RepsPrescription(4, 15),
			Intensity:     fitness.IntensityHigh,
			ImageURL:      "/images/exercises/kettlebell-swing.webp",
		},
		{
			ID:            "ex-band-pull-apart",
			Name:          "Band Pull-Apart",
			Description:   "Pull the band apart at shoulder height, squeezing the shoulder blades.",
			TargetMuscles: []string{"rear_delts", "upper_back"},
			Equipment:     []string{"resistance_band"},
			Prescription:  fitness.RepsPrescription(3, 20),
			Intensity:     fitness.IntensityLow,
			ImageURL:      "/images/exercises/band-pull-apart.webp",
		},
		{
			ID:            "ex-pull-up",
			Name:          "Pull-Up",
			Description:   "Start from a dead hang and pull the chin over the bar.",
			TargetMuscles: []string{"lats", "biceps"},
			Equipment:     []string{"pull_up_bar"},
			Prescription:  fitness.RepsPrescription(3, 6),
			Intensity:     fitness.IntensityHigh,
			ImageURL:      "/images/exercises/pull-up.webp",
		},
		{
			ID:            "ex-jump-rope",
			Name:          "Jump Rope",
			Description:   "Light bounces on the balls of the feet, wrists doing the work.",
			TargetMuscles: []string{"calves", "cardio"},
			Equipment:     []string{"jump_rope"},
			Prescription:  fitness.TimePrescription(5, 60),
			Intensity:     fitness.IntensityMedium,
			ImageURL:      "/images/exercises/jump-rope.webp",
		},
		{
			ID:            "ex-brisk-walk",
			Name:          "Brisk Walk",
			Description:   "Walk at a pace where talking is possible but singing is not.",
			TargetMuscles: []string{"cardio"},
			Equipment:     []string{EquipmentNone},
			Prescription:  fitness.TimePrescription(1, 1800),
			Intensity:     fitness.IntensityLow,
			ImageURL:      "/images/exercises/brisk-walk.webp",
		},
		{
			ID:            "ex-hip-mobility",
			Name:          "Hip Mobility Flow",
			Description:   "90/90 switches, deep squat holds and hip circles.",
			TargetMuscles: []string{"hips", "glutes"},
			Equipment:     []string{EquipmentNone},
			Prescription:  fitness.TimePrescription(2, 120),
			Intensity:     fitness.IntensityLow,
			ImageURL:      "/images/exercises/hip-mobility.webp",
		},
		{
			ID:            "ex-barbell-deadlift",
			Name:          "Barbell Deadlift",
			Description:   "Bar over mid-foot, neutral spine, push the floor away.",
			TargetMuscles: []string{"hamstrings", "glutes", "lower_back"},
			Equipment:     []string{"barbell"},
			Prescription:  fitness.RepsPrescription(5, 5),
			Intensity:     fitness.IntensityHigh,
			ImageURL:      "/images/exercises/deadlift.webp",
		},
	}
}

//nolint:funlen,mnd // static table.
func defaultMeals() []fitness.NutritionMeal {
	return []fitness.NutritionMeal{
		{
			ID: "meal-oats", Name: "Protein Oats", Description: "Rolled oats with whey, berries and chia.",
			Calories: 480, ProteinG: 35, CarbsG: 60, FatsG: 11,
			Tags: []string{"muscle_gain", "general_fitness"}, ImageURL: "/images/meals/oats.webp",
		},
		{
			ID: "meal-egg-scramble", Name: "Veggie Egg Scramble", Description: "Three eggs, spinach, peppers, rye toast.",
			Calories: 420, ProteinG: 28, CarbsG: 30, FatsG: 20,
			Tags: []string{"fat_loss", "general_fitness"}, ImageURL: "/images/meals/egg-scramble.webp",
		},
		{
			ID: "meal-chicken-bowl", Name: "Chicken Rice Bowl", Description: "Grilled chicken, jasmine rice, greens.",
			Calories: 650, ProteinG: 48, CarbsG: 75, FatsG: 14,
			Tags: []string{"muscle_gain", "endurance"}, ImageURL: "/images/meals/chicken-bowl.webp",
		},
		{
			ID: "meal-salmon-salad", Name: "Salmon Salad", Description: "Baked salmon over mixed leaves with quinoa.",
			Calories: 520, ProteinG: 38, CarbsG: 28, FatsG: 26,
			Tags: []string{"fat_loss", "general_fitness"}, ImageURL: "/images/meals/salmon-salad.webp",
		},
		{
			ID: "meal-pasta", Name: "Wholegrain Pasta", Description: "Wholegrain pasta with turkey ragù.",
			Calories: 700, ProteinG: 40, CarbsG: 95, FatsG: 15,
			Tags: []string{"endurance"}, ImageURL: "/images/meals/pasta.webp",
		},
		{
			ID: "meal-greek-yogurt", Name: "Greek Yogurt Parfait", Description: "Greek yogurt, honey, walnuts, fruit.",
			Calories: 310, ProteinG: 22, CarbsG: 34, FatsG: 9,
			Tags: []string{"fat_loss", "muscle_gain"}, ImageURL: "/images/meals/yogurt.webp",
		},
		{
			ID: "meal-lentil-stew", Name: "Lentil Stew", Description: "Red lentils, carrots, cumin and spinach.",
			Calories: 450, ProteinG: 24, CarbsG: 62, FatsG: 8,
			Tags: []string{"general_fitness", "endurance"}, ImageURL: "/images/meals/lentil-stew.webp",
		},
		{
			ID: "meal-tofu-stirfry", Name: "Tofu Stir-Fry", Description: "Firm tofu, broccoli, soba noodles.",
			Calories: 540, ProteinG: 30, CarbsG: 58, FatsG: 18,
			Tags: []string{"muscle_gain", "fat_loss"}, ImageURL: "/images/meals/tofu-stirfry.webp",
		},
	}
}
