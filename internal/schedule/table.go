package schedule

// DefaultTable is the current term's timetable. Entries are matched in
// this order.
func DefaultTable() Table {
	return Table{
		{
			Name: "MB_CSE 590 Data Analytics",
			Schedule: map[string][]string{
				"Wednesday": {"7:15PM-9:49PM"},
				"Saturday":  {"12:45PM-2:39PM"},
			},
			Folder: "MB CSE 590 Data Analytics",
		},
		{
			Name: "MB 590 Business Law",
			Schedule: map[string][]string{
				"Thursday": {"3:55PM-6:19PM"},
				"Saturday": {"8:55AM-10:39AM"},
			},
			Folder: "MB 590 Business Law",
		},
		{
			Name: "MB 590 Innovation in Fintech",
			Schedule: map[string][]string{
				"Wednesday": {"3:55PM-6:19PM"},
				"Saturday":  {"4:15PM-5:59PM"},
			},
			Folder: "MB 590 Fintech Innovation",
		},
		{
			Name: "MB 590 Sales Operations and Management",
			Schedule: map[string][]string{
				"Tuesday":  {"3:55PM-6:19PM"},
				"Saturday": {"2:35PM-4:20PM"},
			},
			Folder: "MB 590 Sales Operations",
		},
		{
			Name: "MB 590 AI and project management",
			Schedule: map[string][]string{
				"Tuesday":  {"7:25PM-9:49PM"},
				"Saturday": {"10:35AM-12:25PM"},
			},
			Folder: "MB 590 AI Project Management",
		},
	}
}
