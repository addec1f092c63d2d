package response

import (
	"fmt"

	"home-gateway-be/internal/telemetry"
	"home-gateway-be/pkg/intent"
)

const chartPresented = `
Inform the user that the %s chart for the given period/date is presented right now.
Don't say anything else about the chart information.
Don't mention this exact text`

const welcomeContext = `
You are an AI Smart Home Assistant. Your name is ABC (short for Artificial Based Control).

Inform the user of your capabilities/greet them.
Mention some of the following:
- create custom charts for indoor light intensity/sun intensity/temperature fluctuations for any period of time
- you can tell the current sun intensity
- you can tell the house's current light level
- open the house's blinds and barrier
- turn lights on/off
- sound an alarm to scare off wild animals
- start a live camera feed
- take a photo and describe it to you
- maybe the user wants a clothing suggestion

(Optional): Prompt the user to continue exploring the application to find out more features.`

const startAlarmContext = `
Do ONLY one of the following:
- say BEEP BEEP BEEP.
- inform the user that an alarm has been started

ONLY IF the user seems in trouble inform them that you hope the situation is OK.
ONLY IF there are wild animals or dangers outside the house inform them that you hope the situation is OK.`

const bedtimeStoryContext = `
Inform the user you closed the lights in the house.
Tell a short bedtime story with a nice ending.`

const noMatchContext = "Apologize to the user you didn't understand or you haven't been trained to answer this question/request."

// BuildContext turns an intent and the current readings into the instruction
// the synthesizer hands to the model. It is total over every Kind and has no
// side effects; commands are sent by the dispatcher.
func BuildContext(in intent.Intent, r telemetry.Readings) string {
	switch in.Kind {
	case intent.KindBedtimeStory:
		return bedtimeStoryContext

	case intent.KindStartAlarm:
		return startAlarmContext

	case intent.KindWelcome:
		return welcomeContext

	case intent.KindBatteryLevel:
		if in.WantsValue() {
			return fmt.Sprintf("The battery level currently is %s", FormatPercent(r.BatteryLevel))
		}
		return fmt.Sprintf(chartPresented, "battery level")

	case intent.KindSunIntensity:
		if in.WantsValue() {
			return fmt.Sprintf("Sun intensity currently is %s which is %s", FormatPercent(r.SunLevel), DescribeSun(r.SunLevel))
		}
		return fmt.Sprintf(chartPresented, "sun intensity")

	case intent.KindHouseLightingLevel:
		if in.WantsValue() {
			return fmt.Sprintf("The house light level currently is %s which means the room's lighting level is %s",
				FormatPercent(r.LightLevel), DescribeLight(r.LightLevel))
		}
		return fmt.Sprintf(chartPresented, "house light level")

	case intent.KindTemperature:
		if in.WantsValue() {
			return fmt.Sprintf("Say that temperature currently is %s Celsius (also mention it's %s)",
				FormatCelsius(r.TemperatureC), DescribeTemperature(r.TemperatureC))
		}
		return fmt.Sprintf(chartPresented, "temperature")

	case intent.KindLights:
		switch in.Intensity {
		case intent.IntensityOn:
			return "Say that the lights have been turned on right now"
		case intent.IntensityAuto:
			return "Say that the lights are controlled automatically now"
		default:
			return "Say that the lights have been turned off right now"
		}

	case intent.KindBarrier:
		switch in.Intensity {
		case intent.IntensityOn:
			return "Say that the barrier has been opened right now"
		case intent.IntensityAuto:
			return "Say that the barrier is now controlled automatically"
		default:
			return "Say that the barrier has been closed right now"
		}

	case intent.KindBlinds:
		switch in.Intensity {
		case intent.IntensityOn:
			return "Say that the blinds have been opened right now"
		case intent.IntensityAuto:
			return "Say that the blinds are now controlled automatically"
		default:
			return "Say that the blinds have been closed right now"
		}

	case intent.KindDescribePhoto:
		return "Describe the photo."

	case intent.KindParkingLogs:
		return "Say you have the parking logs"

	case intent.KindPeopleReport:
		return "Say you have the people reports"

	case intent.KindLiveFeed:
		return "Say that the user can view the live feed now."

	default:
		return noMatchContext
	}
}
