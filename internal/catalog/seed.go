package catalog

import (
	"fmt"
	"time"

	"github.com/carlothq/carlot-backend/pkg/db/models"
	dbtypes "github.com/carlothq/carlot-backend/pkg/db/types"
)

func strptr(s string) *string { return &s }

// SeedCars returns the development fixture: a dozen listings spanning the
// brands and fuel types the storefront filters on. Creation times are spread
// one minute apart so the default newest-first ordering is deterministic.
func SeedCars(base time.Time) []models.Car {
	base = base.UTC()

	cars := []models.Car{
		{
			Brand:           "BMW",
			Model:           "3 Series",
			Year:            2023,
			Price:           45990,
			VehicleType:     "Petrol",
			Rating:          4.6,
			Stock:           4,
			Color:           "Alpine White",
			Description:     "Compact executive sedan with a turbocharged inline-four and adaptive suspension.",
			Features:        dbtypes.StringList{"Sunroof", "Heated Seats", "Lane Assist"},
			Mileage:         "12 km/l",
			Transmission:    "Automatic",
			FuelCapacity:    strptr("59 L"),
			SeatingCapacity: 5,
		},
		{
			Brand:           "Mercedes",
			Model:           "C-Class",
			Year:            2023,
			Price:           52450,
			VehicleType:     "Petrol",
			Rating:          4.5,
			Stock:           3,
			Color:           "Obsidian Black",
			Description:     "Luxury sedan with MBUX infotainment and a mild-hybrid drivetrain.",
			Features:        dbtypes.StringList{"Ambient Lighting", "Wireless Charging"},
			Mileage:         "11 km/l",
			Transmission:    "Automatic",
			FuelCapacity:    strptr("66 L"),
			SeatingCapacity: 5,
		},
		{
			Brand:           "Audi",
			Model:           "Q5",
			Year:            2022,
			Price:           48900,
			VehicleType:     "Diesel",
			Rating:          4.4,
			Stock:           5,
			Color:           "Navarra Blue",
			Description:     "Mid-size SUV with quattro all-wheel drive and a torquey diesel engine.",
			Features:        dbtypes.StringList{"Virtual Cockpit", "Panoramic Roof"},
			Mileage:         "15 km/l",
			Transmission:    "Automatic",
			FuelCapacity:    strptr("70 L"),
			SeatingCapacity: 5,
		},
		{
			Brand:           "Toyota",
			Model:           "Corolla Hybrid",
			Year:            2024,
			Price:           27990,
			VehicleType:     "Hybrid",
			Rating:          4.7,
			Stock:           8,
			Color:           "Celestite Gray",
			Description:     "Dependable compact hybrid with excellent fuel economy and Toyota Safety Sense.",
			Features:        dbtypes.StringList{"Adaptive Cruise", "Apple CarPlay"},
			Mileage:         "23 km/l",
			Transmission:    "CVT",
			FuelCapacity:    strptr("43 L"),
			SeatingCapacity: 5,
		},
		{
			Brand:           "Honda",
			Model:           "Civic",
			Year:            2023,
			Price:           25900,
			VehicleType:     "Petrol",
			Rating:          4.5,
			Stock:           6,
			Color:           "Sonic Gray",
			Description:     "Sporty compact sedan with a refined cabin and responsive handling.",
			Features:        dbtypes.StringList{"Sunroof", "Blind Spot Monitor"},
			Mileage:         "17 km/l",
			Transmission:    "CVT",
			FuelCapacity:    strptr("47 L"),
			SeatingCapacity: 5,
		},
		{
			Brand:           "Ford",
			Model:           "Mustang Mach-E",
			Year:            2024,
			Price:           54700,
			VehicleType:     "Electric",
			Rating:          4.3,
			Stock:           2,
			Color:           "Grabber Blue",
			Description:     "All-electric crossover with up to 480 km of range and rapid charging.",
			Features:        dbtypes.StringList{"One-Pedal Driving", "BlueCruise"},
			Mileage:         "5.6 km/kWh",
			Transmission:    "Automatic",
			BatteryCapacity: strptr("91 kWh"),
			SeatingCapacity: 5,
		},
		{
			Brand:           "BMW",
			Model:           "iX",
			Year:            2024,
			Price:           87100,
			VehicleType:     "Electric",
			Rating:          4.4,
			Stock:           1,
			Color:           "Mineral White",
			Description:     "Flagship electric SUV with a curved display and air suspension.",
			Features:        dbtypes.StringList{"Massage Seats", "Laser Headlights"},
			Mileage:         "4.9 km/kWh",
			Transmission:    "Automatic",
			BatteryCapacity: strptr("105 kWh"),
			SeatingCapacity: 5,
		},
		{
			Brand:           "Toyota",
			Model:           "Land Cruiser",
			Year:            2023,
			Price:           89990,
			VehicleType:     "Diesel",
			Rating:          4.8,
			Stock:           2,
			Color:           "Pearl White",
			Description:     "Legendary off-roader with a twin-turbo diesel V6 and locking differentials.",
			Features:        dbtypes.StringList{"Crawl Control", "Cooled Seats"},
			Mileage:         "10 km/l",
			Transmission:    "Automatic",
			FuelCapacity:    strptr("110 L"),
			SeatingCapacity: 7,
		},
		{
			Brand:           "Mercedes",
			Model:           "EQB",
			Year:            2023,
			Price:           59900,
			VehicleType:     "Electric",
			Rating:          4.2,
			Stock:           3,
			Color:           "Rose Gold",
			Description:     "Seven-seat electric SUV sized for the family school run.",
			Features:        dbtypes.StringList{"Third Row", "360 Camera"},
			Mileage:         "5.2 km/kWh",
			Transmission:    "Automatic",
			BatteryCapacity: strptr("66 kWh"),
			SeatingCapacity: 7,
		},
		{
			Brand:           "Honda",
			Model:           "CR-V Hybrid",
			Year:            2024,
			Price:           34500,
			VehicleType:     "Hybrid",
			Rating:          4.6,
			Stock:           5,
			Color:           "Radiant Red",
			Description:     "Practical hybrid SUV with a spacious cabin and hands-free tailgate.",
			Features:        dbtypes.StringList{"Hands-Free Tailgate", "Heated Steering"},
			Mileage:         "20 km/l",
			Transmission:    "CVT",
			FuelCapacity:    strptr("53 L"),
			SeatingCapacity: 5,
		},
		{
			Brand:           "Audi",
			Model:           "A4",
			Year:            2022,
			Price:           42300,
			VehicleType:     "Petrol",
			Rating:          4.3,
			Stock:           4,
			Color:           "Mythos Black",
			Description:     "Understated sports sedan with a high-quality interior and quattro grip.",
			Features:        dbtypes.StringList{"Matrix LED", "Bang & Olufsen Audio"},
			Mileage:         "13 km/l",
			Transmission:    "Automatic",
			FuelCapacity:    strptr("54 L"),
			SeatingCapacity: 5,
		},
		{
			Brand:           "Ford",
			Model:           "Ranger",
			Year:            2023,
			Price:           38950,
			VehicleType:     "Diesel",
			Rating:          4.1,
			Stock:           6,
			Color:           "Carbonized Gray",
			Description:     "Mid-size pickup with a bi-turbo diesel and serious towing capacity.",
			Features:        dbtypes.StringList{"Tow Package", "Terrain Management"},
			Mileage:         "12 km/l",
			Transmission:    "Automatic",
			FuelCapacity:    strptr("80 L"),
			SeatingCapacity: 5,
		},
	}

	for i := range cars {
		cars[i].ID = fmt.Sprintf("seed-%02d", i+1)
		cars[i].ImageURL = fmt.Sprintf("https://images.carlot.dev/cars/seed-%02d.jpg", i+1)
		cars[i].Available = cars[i].Stock > 0
		cars[i].CreatedAt = base.Add(time.Duration(i) * time.Minute)
		cars[i].UpdatedAt = cars[i].CreatedAt
	}
	return cars
}
