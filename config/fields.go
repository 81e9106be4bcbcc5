package config

// DefaultFields is the column selection used by the tsv command when
// neither the config file nor the command line names one. It covers the
// tags the cataloging workflows around FID Judaica dumps actually
// consult.
var DefaultFields = []string{
	"PPN",
	"002@",
	"003O",
	"004A",
	"009P",
	"010@",
	"011@",
	"021A",
	"021M",
	"022A",
	"022A/01",
	"025@",
	"027A",
	"027A/01",
	"027A/02",
	"027A/03",
	"028A",
	"028B/01",
	"028C",
	"028C/01",
	"028C/02",
	"028C/03",
	"028F",
	"032@",
	"032B",
	"033A",
	"034D",
	"036C",
	"036C/01",
	"036D",
	"036E",
	"036G",
	"037A",
	"037C",
	"041A",
	"041A/01",
	"041A/02",
	"044A",
	"044K",
	"045B",
	"045E",
	"045F",
	"045F/01",
	"045K",
	"045R",
	"045U",
	"045Z",
	"046B",
	"046C",
	"046L",
	"046M",
	"047C",
	"145S/01",
	"145S/02",
	"145S/06",
	"145S/07",
	"145S/08",
	"145S/11",
	"145Z/01",
	"145Z/02",
	"145Z/03",
}
