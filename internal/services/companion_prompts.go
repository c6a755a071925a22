package services

import (
	"fmt"
	"strings"
)

const companionPersonaPrompt = `You are Goon, an empathetic AI companion designed to help young people overcome porn addiction and build better lives. Your mission is to provide:

1. **Recovery Support**: Motivational guidance, coping strategies, and relapse prevention
2. **Social Connection**: Help users find real-world friendships and meaningful activities
3. **Life Planning**: Assist with goal setting, habit building, and life experiences
4. **Emotional Intelligence**: Recognize mood, provide comfort, and encourage growth

**Your Personality:**
- Warm, understanding, and non-judgmental
- Encouraging but realistic about challenges
- Focused on practical solutions and real-world action
- Supportive of healthy relationships and activities
- Knowledgeable about recovery science and social psychology

**Key Guidelines:**
- Always maintain hope and positivity while acknowledging struggles
- Encourage real-world activities over digital escapism
- Suggest specific actionable steps, not just general advice
- Help users connect with others when appropriate
- Track progress and celebrate wins, no matter how small
- Be conversational and relatable, not clinical or robotic

**Available Actions:**
- Plan social activities and meetups
- Suggest habit tracking and goal setting
- Recommend local events and experiences
- Help with calendar scheduling
- Connect users with support groups
- Provide crisis support and motivation

Remember: You're here to help them build a life so good they don't want to escape from it.`

const activityAssistantPrompt = "You are a helpful assistant focused on suggesting healthy, real-world activities."

const triggerAnalysisSuffix = "\n\nYou are analyzing situations for recovery support. Be specific and practical."

// Fixed replies used when the completion endpoint fails or answers with nothing.
const (
	chatEmptyReply         = "I'm here to help! Could you tell me more about what's on your mind?"
	chatFallbackReply      = "I'm experiencing some technical difficulties right now. Let me try to help you in a different way. What's the most important thing you need support with today?"
	motivationEmptyReply   = "Today is a new opportunity to build the life you want. What's one small step you can take right now?"
	motivationFallbackText = "Every day is progress, even if it doesn't feel like it. You're stronger than you know! 💪"
)

func fallbackActivities() []string {
	return []string{
		"Take a walk in a local park or nature area",
		"Visit a coffee shop and strike up a conversation",
		"Join a fitness class or sports group",
		"Attend a community event or workshop",
		"Volunteer for a local charity or cause",
	}
}

func triggerParseFallback() TriggerAnalysis {
	return TriggerAnalysis{
		Triggers:      []string{"Stress", "Isolation", "Boredom"},
		Strategies:    []string{"Take deep breaths", "Call a friend", "Go for a walk"},
		EmergencyPlan: []string{"Contact support group", "Use emergency contact", "Visit public space"},
	}
}

func triggerTransportFallback() TriggerAnalysis {
	return TriggerAnalysis{
		Triggers:      []string{"Emotional stress", "Being alone", "Unstructured time"},
		Strategies:    []string{"Practice mindfulness", "Reach out to someone", "Engage in physical activity"},
		EmergencyPlan: []string{"Call crisis line", "Go to public place", "Contact accountability partner"},
	}
}

func motivationPrompt(s Snapshot) string {
	name := s.UserName
	if name == "" {
		name = "this user"
	}
	goals := joinTitles(s.RecentGoals)
	if goals == "" {
		goals = "Building better habits"
	}
	return fmt.Sprintf(`Generate a personalized daily motivation message for %s based on their recovery journey.

Context:
- %d days current streak
- %d days personal best
- Goals: %s

Make it encouraging, specific to their progress, and include a suggested action for today. Keep it under 150 words.`,
		name, intOrZero(s.CurrentStreak), intOrZero(s.LongestStreak), goals)
}

func activityPrompt(s Snapshot, mood string, preferences []string) string {
	if strings.TrimSpace(mood) == "" {
		mood = "neutral"
	}
	location := s.Location
	if location == "" {
		location = "general suggestions"
	}
	interests := strings.Join(preferences, ", ")
	if interests == "" {
		interests = "varied activities"
	}
	timeOfDay := s.TimeOfDay
	if timeOfDay == "" {
		timeOfDay = "any time"
	}
	return fmt.Sprintf(`Suggest 5 specific real-world activities for someone in recovery who is feeling %s.

Context:
- Location: %s
- Interests: %s
- Time of day: %s

Focus on:
- Social connections and meeting new people
- Physical activities and outdoor experiences
- Creative and skill-building pursuits
- Community involvement and volunteer opportunities
- Healthy entertainment and cultural activities

Return as a simple numbered list, each item should be actionable and specific.`,
		mood, location, interests, timeOfDay)
}

func triggerAnalysisPrompt(s Snapshot, situation string) string {
	mood := s.Mood
	if mood == "" {
		mood = "not specified"
	}
	return fmt.Sprintf(`Analyze this situation for potential relapse triggers and provide coping strategies:

Situation: "%s"

User context:
- Current streak: %d days
- Mood: %s

Provide:
1. Potential triggers in this situation
2. Specific coping strategies
3. Emergency plan if urges become strong

Format as JSON with keys: triggers, strategies, emergencyPlan (each as arrays of strings)`,
		situation, intOrZero(s.CurrentStreak), mood)
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
