package mealplan

import "time"

// DayPlan holds the meals scheduled for one date
type DayPlan struct {
	Date      time.Time
	Breakfast *MealPlan
	Lunch     *MealPlan
	Dinner    *MealPlan
}

// Slot returns the plan in the given meal slot, or nil
func (d DayPlan) Slot(mt MealType) *MealPlan {
	switch mt {
	case Breakfast:
		return d.Breakfast
	case Lunch:
		return d.Lunch
	case Dinner:
		return d.Dinner
	}
	return nil
}

// Week is a Monday to Sunday view of meal plans
type Week struct {
	Start      time.Time
	End        time.Time
	Offset     int
	PrevOffset int
	NextOffset int
	Days       []DayPlan
}

// WeekStart returns the Monday of the week containing today, shifted by
// offset whole weeks.
func WeekStart(today time.Time, offset int) time.Time {
	day := Day(today)
	// Monday is 0, Sunday is 6.
	sinceMonday := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -sinceMonday+7*offset)
}

// BuildWeek arranges plans into a seven-day view starting at WeekStart.
// Plans outside the week are ignored; for each slot the first matching plan
// wins.
func BuildWeek(today time.Time, offset int, plans []*MealPlan) Week {
	start := WeekStart(today, offset)
	byDate := make(map[string][]*MealPlan)
	for _, p := range plans {
		key := p.Date().Format(DateLayout)
		byDate[key] = append(byDate[key], p)
	}

	days := make([]DayPlan, 7)
	for i := range days {
		date := start.AddDate(0, 0, i)
		dayPlans := byDate[date.Format(DateLayout)]
		days[i] = DayPlan{
			Date:      date,
			Breakfast: GetMeal(dayPlans, Breakfast),
			Lunch:     GetMeal(dayPlans, Lunch),
			Dinner:    GetMeal(dayPlans, Dinner),
		}
	}

	return Week{
		Start:      start,
		End:        start.AddDate(0, 0, 6),
		Offset:     offset,
		PrevOffset: offset - 1,
		NextOffset: offset + 1,
		Days:       days,
	}
}

// GetMeal returns the first plan with the given meal type, or nil
func GetMeal(plans []*MealPlan, mealType MealType) *MealPlan {
	for _, p := range plans {
		if p.MealType() == mealType {
			return p
		}
	}
	return nil
}
