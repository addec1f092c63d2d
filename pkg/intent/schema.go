package intent

// TypeName is the root type the model is asked to produce.
const TypeName = "Response"

// Schema documents every variant together with sample requests. The
// samples steer a small local model far better than field descriptions.
const Schema = `// A natural number, only positive numbers are allowed.
type NaturalNumber = number;

// If the user mentions a date or time period break it down by type (exact or relative).
type ChartTimePeriod =
  // The user mentions an exact time period:
  //   July 2024 - March 2025
  //   March 2019 - 24th March 2023
  //   12th May 2003, 15th May 2003
  //   between 6th January and 15th January
  //   01.10.2009 - 01.11.2011
  //   years 2010 - 2011
  //   period of 2003-2009
  //   from 3 may 2013 to 5 may 2024
  //   July 2021
  //   6th January
  | {
      type: "exact";
      startingDay?: NaturalNumber | null;   // day of the month 1-31, if the user mentions a day
      startingMonth?: NaturalNumber | null; // 1-12, translate month names (eg. January) into numbers
      startingYear?: NaturalNumber | null;  // if the user mentions a year
      endingDay?: NaturalNumber | null;     // a second day has been mentioned
      endingMonth?: NaturalNumber | null;   // a second month has been mentioned
      endingYear?: NaturalNumber | null;    // a second year has been mentioned
    }
  // The user mentions a relative date:
  //   three days ago
  //   one month ago
  //   the past 2 years
  //   last 4 weeks
  //   today
  //   yesterday
  | {
      type: "relative";
      days?: NaturalNumber | null;   // 1-31
      weeks?: NaturalNumber | null;
      months?: NaturalNumber | null; // 1-12
      years?: NaturalNumber | null;
    };

// Use type "chart" if the user mentions a chart or describes a period of time.
// Use type "value" if the user wants the current value.
type ChartOrValue =
  | { type: "value" }
  | { type: "chart"; timePeriod?: ChartTimePeriod | null };

// Use "auto" when the user wants the house to decide on its own.
type Intensity = "on" | "off" | "auto";

// turn on the lights
// turn off the lights
// lights on
// kill the lights
// make it so its no longer dark
// let the house handle the lights
type LightsResponse = { intent: "lights"; intensity: Intensity };

// open the barrier
// close the gate
// let the car in
// lower the barrier
// barrier on automatic
type BarrierResponse = { intent: "barrier"; intensity: Intensity };

// open the blinds
// close the blinds
// let some sun in
// it's too bright, pull the blinds down
// blinds on automatic
type BlindsResponse = { intent: "blinds"; intensity: Intensity };

// current battery level
// house battery level
// battery chart over time
// battery levels this month
// id like to see the history of the battery charge
type BatteryResponse = { intent: "battery_level"; data: ChartOrValue };

// current sun intensity
// current sun level
// sun intensity over time
// sun intensity chart this week
// sun levels this month
// id like to see the history of the sun power intensity
type SunResponse = { intent: "sun_intensity"; data: ChartOrValue };

// The user asks for the current (house) light levels, (house) light/lighting levels chart,
// or if it's bright or dark inside the house.
//   house light level chart
//   house lighting chart
//   current house lighting
type HouseLightingResponse = { intent: "house_lighting_level"; data: ChartOrValue };

// The user asks for the current temperature, a temperature chart, or if it's cold or warm
// inside the house. Asking how to dress inside the house is data.type "value".
type TemperatureResponse = { intent: "temperature"; data: ChartOrValue };

// The user asks for a description via the web camera of the house,
// asks for a photo with the camera or asks to take a photo.
type DescribePhotoResponse = { intent: "describe-photo" };

// start a house alarm
// make beep beep beep
// scare the wild animals
// make a loud noise
// im not safe, there are bears outside the house
type StartAlarmResponse = { intent: "start-alarm" };

// bedtime story
// tell me a bedtime story
// i have been having bad dreams
// my kids cant sleep
// help me sleep
type BedtimeStoryResponse = { intent: "bedtime-story" };

// Hello
// What can you do?
// Who are you
// How smart is this home?
// What is your name?
type WelcomeResponse = { intent: "welcome" };

// The user asks for parking logs.
type ParkingLogsResponse = { intent: "parking-logs" };

// The user asks for a people report.
type PeopleResponse = { intent: "people-report" };

// The user asks for a live feed.
type LiveFeedResponse = { intent: "live-feed" };

// If the message doesn't match any of the examples provided respond with this.
// If the user's message is explicit or offensive respond with "no-match".
// If the user's message is not in english refuse to answer and respond with "no-match".
type NoMatchResponse = { intent: "no-match" };

type Response =
  | LightsResponse
  | BarrierResponse
  | BlindsResponse
  | BatteryResponse
  | SunResponse
  | HouseLightingResponse
  | TemperatureResponse
  | DescribePhotoResponse
  | StartAlarmResponse
  | BedtimeStoryResponse
  | WelcomeResponse
  | ParkingLogsResponse
  | PeopleResponse
  | LiveFeedResponse
  | NoMatchResponse;`
